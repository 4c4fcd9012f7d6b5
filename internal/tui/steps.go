// Package tui renders human-facing progress output.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/commitmirror/commitmirror/gitlog"
	"github.com/commitmirror/commitmirror/lint"
)

const (
	iconRunning = "▸"
	iconOK      = "✓"
	iconFail    = "✗"
)

// StepPrinter reports lint steps as they run. It implements lint.Observer.
type StepPrinter struct {
	w      io.Writer
	styles *StyleSet
}

// NewStepPrinter creates a StepPrinter writing to w.
func NewStepPrinter(w io.Writer, theme TermTheme) *StepPrinter {
	return &StepPrinter{w: w, styles: NewStyleSet(theme, w)}
}

func (p *StepPrinter) StepStarted(s lint.Step) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.styles.AccentTxt.Render(iconRunning),
		p.styles.Title.Render(s.Name),
		p.styles.DimTxt.Render(s.String()))
}

func (p *StepPrinter) StepFinished(res lint.StepResult) {
	d := res.Duration.Round(10 * time.Millisecond)
	if res.OK() {
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.styles.SuccessTxt.Render(iconOK),
			p.styles.PrimaryTxt.Render(res.Step.Name),
			p.styles.DimTxt.Render(d.String()))
		return
	}
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.styles.ErrorTxt.Render(iconFail),
		p.styles.PrimaryTxt.Render(res.Step.Name),
		p.styles.ErrorTxt.Render(fmt.Sprintf("exit status %d", res.ExitCode)))
}

// PrintPlan lists the steps of a plan without running them.
func (p *StepPrinter) PrintPlan(mode lint.Mode, steps []lint.Step) {
	fmt.Fprintln(p.w, p.styles.Title.Render(fmt.Sprintf("%s plan (%d steps)", mode, len(steps))))
	if len(steps) > 0 {
		fmt.Fprintln(p.w, p.styles.DimTxt.Render("requires: "+strings.Join(lint.Tools(steps), ", ")))
	}
	for i, s := range steps {
		fmt.Fprintf(p.w, "  %d. %s\n", i+1, s.String())
	}
}

// PrintSummary writes the closing line of a lint run.
func (p *StepPrinter) PrintSummary(report *lint.Report) {
	failed := report.Failed()
	if len(failed) == 0 {
		fmt.Fprintln(p.w, p.styles.SuccessTxt.Render(fmt.Sprintf("%s: all %d steps passed", report.Mode, len(report.Results))))
		return
	}
	names := make([]string, 0, len(failed))
	for _, f := range failed {
		names = append(names, f.Step.Name)
	}
	fmt.Fprintln(p.w, p.styles.ErrorTxt.Render(fmt.Sprintf("%s: %d of %d steps failed %v (exit status %d)",
		report.Mode, len(failed), len(report.Results), names, report.ExitCode())))
}

// PrintCommits lists mirrored commits under a heading.
func PrintCommits(w io.Writer, theme TermTheme, heading string, commits []gitlog.Commit) {
	styles := NewStyleSet(theme, w)
	fmt.Fprintln(w, styles.Title.Render(heading))
	for _, c := range commits {
		fmt.Fprintf(w, "  %s %s %s\n",
			styles.DimTxt.Render(c.Timestamp.Format(time.RFC3339)),
			styles.AccentTxt.Render(c.ProjectID),
			c.SHA)
	}
}
