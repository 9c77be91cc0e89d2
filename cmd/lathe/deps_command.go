package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lathe/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "missing"
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "State", "Detail"}, rows))

			if !preflight.AllPassed(results) {
				return errors.New("one or more preflight checks failed")
			}
			return nil
		},
	}
}
