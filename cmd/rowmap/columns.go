package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"row-mapper/internal/mapping"
)

func (a *app) newColumnsCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "columns FILE TYPE",
		Short: "Print the columns a configured type reads",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, typeName := args[0], args[1]

			f, err := mapping.LoadFile(path)
			if err != nil {
				return err
			}

			diags := mapping.Validate(f)

			columns, layoutDiags := mapping.Layout(f, typeName, prefix)
			diags.Merge(*layoutDiags)

			if diags.HasErrors() {
				printDiagnostics(cmd.ErrOrStderr(), path, diags)
				return errInvalid
			}

			a.logger.Debug("column layout", zap.String("type", typeName), zap.String("prefix", prefix), zap.Int("columns", len(columns)))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tNORMALIZED\tFIELD\tFLAGS")

			for _, c := range columns {
				var flags []string
				if c.Key {
					flags = append(flags, "key")
				}

				if c.Nullable {
					flags = append(flags, "nullable")
				}

				field := c.Field
				if field == "" {
					field = "-"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Display, c.Normalized, field, strings.Join(flags, ","))
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "prefix of the type's columns")

	return cmd
}
