package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"row-mapper/internal/diagnostic"
	"row-mapper/internal/mapping"
)

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check mapping files and print their diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0

			for _, path := range args {
				if !a.validate(cmd.OutOrStdout(), path) {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errInvalid, failed, len(args))
			}

			return nil
		},
	}
}

// validate reports on one file and tells whether it is free of errors.
func (a *app) validate(out io.Writer, path string) bool {
	a.logger.Debug("validating mapping file", zap.String("path", path))

	f, err := mapping.LoadFile(path)
	if err != nil {
		fmt.Fprintf(out, "%s: error: %v\n", path, err)
		return false
	}

	diags := mapping.Validate(f)
	printDiagnostics(out, path, diags)

	if diags.HasErrors() {
		return false
	}

	fmt.Fprintf(out, "%s: ok (%d types)\n", path, len(f.Types))

	return true
}

func printDiagnostics(out io.Writer, path string, diags *diagnostic.Diagnostics) {
	for _, list := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings} {
		for _, d := range list {
			fmt.Fprintf(out, "%s: %s: %s\n", path, d.Severity, d)
		}
	}
}
