package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smmh/app"
	"smmh/ui"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		input string
		host  string
		port  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over the cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input != "" {
				c.cfg.Paths.CleanOutput = input
			}
			if port != "" {
				c.cfg.Server.Port = port
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			srv, err := buildServer(cmd.Context(), c, net.JoinHostPort(host, c.cfg.Server.Port))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "dashboard on http://%s\n", net.JoinHostPort(displayHost(host), c.cfg.Server.Port))
			return srv.Run(ctx)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "cleaned CSV path (overrides paths.clean_output)")
	f.StringVar(&host, "host", "", "listen host (default all interfaces)")
	f.StringVarP(&port, "port", "p", "", "listen port (overrides server.port)")
	return cmd
}

// buildServer loads the cleaned table once and analyzes it for the dashboard
func buildServer(ctx context.Context, c *cli, addr string) (*ui.Server, error) {
	ctn, err := c.container(ctx)
	if err != nil {
		return nil, err
	}
	defer ctn.Close()

	ds, _, err := app.LoadCleaned(c.cfg.Paths.CleanOutput)
	if err != nil {
		return nil, err
	}
	res := ctn.Hypotheses.Analyze(ds)
	c.logger.Info("[Server] loaded %s: %d rows, %d included", c.cfg.Paths.CleanOutput, res.Total, res.Included)

	dash := ui.NewDashboard(ds, res, ctn.Vocabulary, ctn.Privacy)
	return ui.NewServer(dash, ui.Options{
		Addr:            addr,
		ReportsDir:      c.cfg.Paths.ReportsDir,
		GinMode:         c.cfg.Server.GinMode,
		ShutdownTimeout: c.cfg.Server.ShutdownTimeout,
	}, c.logger)
}

func displayHost(host string) string {
	if host == "" {
		return "localhost"
	}
	return host
}
