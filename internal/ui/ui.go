// Package ui renders human-facing console output: the ranked list,
// run summaries, warnings, and the run history table.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/newsrank/internal/history"
	"github.com/papapumpkin/newsrank/internal/rank"
	"github.com/papapumpkin/newsrank/internal/report"
)

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // headings
	colorAccent  = lipgloss.Color("#FFD700") // warnings
	colorSuccess = lipgloss.Color("#00E676") // converged
	colorDanger  = lipgloss.Color("#FF5252") // errors
	colorMuted   = lipgloss.Color("#8C8C8C") // secondary text
)

// Printer writes results to out and status messages to status.
// Styles are bound to each writer, so color is dropped automatically
// when the writer is not a terminal.
type Printer struct {
	out    io.Writer
	status io.Writer

	heading lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	danger  lipgloss.Style
	muted   lipgloss.Style
}

// New returns a Printer writing ranked lines to out and everything else
// to status.
func New(out, status io.Writer) *Printer {
	r := lipgloss.NewRenderer(status)
	return &Printer{
		out:     out,
		status:  status,
		heading: r.NewStyle().Foreground(colorPrimary).Bold(true),
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		warn:    r.NewStyle().Foreground(colorAccent).Bold(true),
		danger:  r.NewStyle().Foreground(colorDanger).Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Ranking prints one "Person: <name>    Score: <score>" line per entry.
func (p *Printer) Ranking(list rank.List) {
	for _, e := range list {
		fmt.Fprintln(p.out, report.Line(e))
	}
}

// Summary describes a finished run for the status stream.
type Summary struct {
	Input      string
	Vertices   int
	Edges      int
	Dangling   int
	Iterations int
	Converged  bool
	Delta      float64
	Mass       float64
	Elapsed    time.Duration
	Output     string // results file, empty when not written
}

// RunSummary prints the outcome of a ranking run.
func (p *Printer) RunSummary(s Summary) {
	fmt.Fprintln(p.status, p.heading.Render("newsrank: "+s.Input))
	fmt.Fprintf(p.status, "  vertices:    %s (%s dangling)\n", humanize.Comma(int64(s.Vertices)), humanize.Comma(int64(s.Dangling)))
	fmt.Fprintf(p.status, "  edges:       %s\n", humanize.Comma(int64(s.Edges)))
	if s.Converged {
		fmt.Fprintf(p.status, "  iterations:  %d %s\n", s.Iterations, p.success.Render("✓ converged"))
	} else {
		fmt.Fprintf(p.status, "  iterations:  %d %s\n", s.Iterations, p.warn.Render("⚠ iteration cap reached"))
	}
	fmt.Fprintf(p.status, "  last delta:  %.3g\n", s.Delta)
	fmt.Fprintf(p.status, "  total mass:  %.12f\n", s.Mass)
	fmt.Fprintf(p.status, "  elapsed:     %s\n", s.Elapsed.Round(time.Microsecond))
	if s.Output != "" {
		fmt.Fprintf(p.status, "  written to:  %s\n", s.Output)
	}
}

// GraphStats prints the counts reported by the validate command.
func (p *Printer) GraphStats(input string, vertices, edges, dangling int) {
	fmt.Fprintf(p.status, "%s %s: %s vertices, %s edges, %s dangling\n",
		p.success.Render("✓ valid"), input,
		humanize.Comma(int64(vertices)), humanize.Comma(int64(edges)), humanize.Comma(int64(dangling)))
}

// History prints past runs as an aligned table.
func (p *Printer) History(runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.status, p.muted.Render("(no recorded runs)"))
		return
	}
	fmt.Fprintln(p.status, p.heading.Render(fmt.Sprintf("%-36s  %-20s  %8s  %6s  %-9s  %s",
		"RUN", "STARTED", "VERTICES", "ITERS", "CONVERGED", "TOP")))
	for _, r := range runs {
		conv := "yes"
		if !r.Converged {
			conv = "no"
		}
		fmt.Fprintf(p.status, "%-36s  %-20s  %8d  %6d  %-9s  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Vertices, r.Iterations, conv, r.Leader)
		fmt.Fprintln(p.status, p.muted.Render("  "+r.Input))
	}
}

// Info prints a de-emphasized status line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.status, p.muted.Render(msg))
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.status, p.warn.Render("⚠ ")+msg)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.status, p.danger.Render("error: ")+strings.TrimSpace(msg))
}
