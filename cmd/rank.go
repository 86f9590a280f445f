package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/newsrank/internal/history"
	"github.com/papapumpkin/newsrank/internal/pipeline"
	"github.com/papapumpkin/newsrank/internal/report"
	"github.com/papapumpkin/newsrank/internal/ui"
)

var rankCmd = &cobra.Command{
	Use:   "rank <graph-file> [print_n]",
	Short: "Compute PageRank scores and print the top people",
	Long: "rank loads the network file, computes PageRank with teleportation, writes the\n" +
		"top print_n people to the results file, and prints them to stdout.",
	Args: cobra.RangeArgs(1, 2),
	RunE: runRank,
}

func init() {
	f := rankCmd.Flags()
	f.IntP("top", "n", 50, "number of top people to emit (0 = all)")
	f.Float64P("teleport", "t", 0.15, "teleportation rate in [0, 1]")
	f.Int("max-iterations", 1000, "power iteration cap")
	f.Float64("tolerance", 1e-10, "convergence threshold on the max per-entry change")
	f.Int("workers", 1, "goroutines per multiplication step")
	f.StringP("output", "o", report.DefaultPath, "results file (empty to skip)")
	f.String("format", "text", "results file format: text, toml, json")

	_ = viper.BindPFlag("top", f.Lookup("top"))
	_ = viper.BindPFlag("teleport_rate", f.Lookup("teleport"))
	_ = viper.BindPFlag("max_iterations", f.Lookup("max-iterations"))
	_ = viper.BindPFlag("tolerance", f.Lookup("tolerance"))
	_ = viper.BindPFlag("workers", f.Lookup("workers"))
	_ = viper.BindPFlag("output", f.Lookup("output"))
	_ = viper.BindPFlag("format", f.Lookup("format"))

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	if len(args) == 2 {
		n, err := parsePrintN(args[1])
		if err != nil {
			return err
		}
		e.cfg.Top = n
	}

	_, err = rankOnce(cmd.Context(), e, args[0])
	return err
}

func parsePrintN(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("print_n must be a non-negative integer, got %q", s)
	}
	return n, nil
}

// rankOnce runs the pipeline on input and emits the results to the
// results file, the console, and the history store.
func rankOnce(ctx context.Context, e *env, input string) (*pipeline.Result, error) {
	res, err := e.runner.RunFile(ctx, input, e.pipelineOptions())
	if err != nil {
		return nil, err
	}

	top := res.Ranking.Top(e.cfg.Top)
	if e.cfg.Output != "" {
		if err := report.WriteFile(e.cfg.Output, top, e.format); err != nil {
			return nil, err
		}
	}
	e.printer.Ranking(top)

	if e.store != nil {
		run := history.Run{
			ID:           res.RunID,
			Input:        input,
			Vertices:     res.Graph.N,
			Edges:        res.Graph.EdgeCount(),
			TeleportRate: e.cfg.TeleportRate,
			Iterations:   res.Iterations,
			Converged:    res.Converged,
			Delta:        res.Delta,
		}
		if _, err := e.store.Record(ctx, run, top); err != nil {
			return nil, err
		}
	}

	e.printer.RunSummary(ui.Summary{
		Input:      input,
		Vertices:   res.Graph.N,
		Edges:      res.Graph.EdgeCount(),
		Dangling:   len(res.Graph.Dangling()),
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Delta:      res.Delta,
		Mass:       res.Mass(),
		Elapsed:    res.Elapsed,
		Output:     e.cfg.Output,
	})
	if !res.Converged {
		e.printer.Warn(fmt.Sprintf("scores did not converge within %d iterations; results are approximate", res.Iterations))
	}
	return res, nil
}
