package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/newsrank/internal/graph"
	"github.com/papapumpkin/newsrank/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <graph-file>",
	Short: "Check that a network file parses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateFile(ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()), args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateFile(p *ui.Printer, path string) error {
	g, err := graph.Load(path)
	if err != nil {
		return err
	}
	p.GraphStats(path, g.N, g.EdgeCount(), len(g.Dangling()))
	if g.N == 0 {
		p.Warn("graph declares no vertices; rank will refuse it")
	}
	return nil
}
