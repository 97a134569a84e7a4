package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smmh/app"
	"smmh/internal/errors"
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [cleaned.csv]",
		Short: "Re-check a cleaned table and print the quality findings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.Paths.CleanOutput
			if len(args) == 1 {
				path = args[0]
			}

			ctn, err := c.container(cmd.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			rep, err := ctn.ETL.Validate(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d rows, %d columns, %d duplicate rows\n", path, rep.RowCount, rep.ColumnCount, rep.DuplicateRows)
			for _, f := range rep.Findings {
				status := "PASS"
				if !f.Passed {
					status = "FAIL"
				}
				fmt.Fprintf(w, "  %-16s %s  %s\n", f.Check, status, f.Detail)
			}
			for _, col := range app.SortedIssueColumns(rep.InvalidValues) {
				fmt.Fprintf(w, "  invalid values in %s: %d\n", col, rep.InvalidValues[col])
			}

			if failed := rep.Failed(); len(failed) > 0 {
				return errors.ValidationError(fmt.Sprintf("%d quality check(s) failed", len(failed)))
			}
			return nil
		},
	}
}
