// Package ui serves the read-only survey dashboard.
package ui

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"smmh/internal"
)

// Options configures the dashboard server
type Options struct {
	Addr            string
	ReportsDir      string
	GinMode         string
	ShutdownTimeout time.Duration
}

// Server is the dashboard HTTP server
type Server struct {
	router    *gin.Engine
	data      *Dashboard
	opts      Options
	templates *template.Template
	logger    *internal.Logger
}

// NewServer creates a server over a loaded dashboard snapshot
func NewServer(data *Dashboard, opts Options, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		data:      data,
		opts:      opts,
		templates: tmpl,
		logger:    logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("[Server] %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/overview", s.handleOverview)
		api.GET("/distribution/:column", s.handleDistribution)
		api.GET("/hypotheses", s.handleHypotheses)
		api.GET("/correlations", s.handleCorrelations)
		api.GET("/segments/:column", s.handleSegments)
	}

	charts := s.router.Group("/charts")
	{
		charts.GET("/distribution/:column", s.handleDistributionChart)
		charts.GET("/platforms", s.handlePlatformChart)
	}

	s.router.GET("/reports/:name", s.handleReport)
}

// Run serves until ctx is cancelled, then shuts down within the configured timeout
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("[Server] listening on %s", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("[Server] shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
