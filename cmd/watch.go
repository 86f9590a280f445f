package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/newsrank/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <graph-file>",
	Short: "Re-rank whenever the network file changes",
	Long: "watch ranks the file once, then recomputes and rewrites the results every time\n" +
		"the file is saved. Parse errors are reported and the previous results are kept.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	// watch shares rank's flags so results go to the same place.
	watchCmd.Flags().AddFlagSet(rankCmd.Flags())
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := loadEnv(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	w, err := watch.New(args[0])
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	return watchLoop(ctx, e, args[0], w.Changes)
}

// watchLoop ranks input once and again on every change until ctx ends
// or changes is closed. Ranking failures are reported, not returned.
func watchLoop(ctx context.Context, e *env, input string, changes <-chan watch.Change) error {
	rerank := func() {
		if _, err := rankOnce(ctx, e, input); err != nil && ctx.Err() == nil {
			e.printer.Error(err.Error())
		}
	}

	rerank()
	e.printer.Info("watching " + input + " (ctrl-c to stop)")
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if c.Kind == watch.ChangeRemoved {
				e.printer.Warn(input + " was removed; waiting for it to return")
				continue
			}
			e.printer.Info("change detected, re-ranking")
			rerank()
		}
	}
}
