package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lathe/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past rips recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rips recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.CreatedAt.Local().Format(time.DateTime),
					run.Title,
					formatDuration(run.DurationSeconds),
					string(run.Status),
					summarize(run),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Title", "Length", "Status", "Detail"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func formatDuration(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func summarize(run *ledger.Run) string {
	switch run.Status {
	case ledger.StatusCompleted:
		return run.OutputFile
	case ledger.StatusFailed:
		return run.ErrorMessage
	default:
		return run.URL
	}
}
