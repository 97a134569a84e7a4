// Command smmh runs the survey ETL, the hypothesis battery and the dashboard.
package main

import (
	"fmt"
	"os"

	"smmh/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}
