package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var errHistoryDisabled = errors.New("history is disabled: pass --history <db> or set history_path")

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or show the ranking stored for one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to list (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	limit, _ := cmd.Flags().GetInt("limit")
	runID := ""
	if len(args) == 1 {
		runID = args[0]
	}
	return showHistory(cmd.Context(), e, runID, limit)
}

func showHistory(ctx context.Context, e *env, runID string, limit int) error {
	if e.store == nil {
		return errHistoryDisabled
	}
	if runID == "" {
		runs, err := e.store.Runs(ctx, limit)
		if err != nil {
			return err
		}
		e.printer.History(runs)
		return nil
	}
	list, err := e.store.Scores(ctx, runID)
	if err != nil {
		return err
	}
	e.printer.Ranking(list)
	return nil
}
