package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalid = errors.New("mapping file has errors")

type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "rowmap",
		Short:         "Inspect row mapping files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !a.verbose {
				return nil
			}

			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}

			a.logger = logger

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(a.newValidateCmd(), a.newColumnsCmd())

	return root
}
