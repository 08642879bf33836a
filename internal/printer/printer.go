// internal/printer/printer.go
package printer

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/repohub/repohub/internal/model"
)

var (
	styleName   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("253"))
	styleBranch = lipgloss.NewStyle().Foreground(lipgloss.Color("73"))
	styleDirty  = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	styleClean  = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	styleFailed = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Printer renders a report to a writer: one block per repository, dirty
// repositories first. Verbose switches the expressive layout on.
type Printer struct {
	w       io.Writer
	verbose bool
}

func New(w io.Writer, verbose bool) *Printer {
	return &Printer{w: w, verbose: verbose}
}

func (p *Printer) Print(report *model.Report) {
	for _, rec := range displayOrder(report.Records) {
		switch {
		case rec.Failed():
			p.printFailure(rec)
		case p.verbose:
			p.printExpressive(rec)
		default:
			p.printMinimal(rec)
		}
		fmt.Fprintln(p.w)
	}

	p.printSummary(report)
}

// displayOrder puts repositories with changes first (most changes first),
// then failures, then clean repositories; path order breaks ties so the
// output is stable across runs.
func displayOrder(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)

	group := func(rec model.Record) int {
		switch {
		case rec.Status != nil && rec.Status.IsDirty():
			return 0
		case rec.Failed():
			return 1
		default:
			return 2
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := group(out[i]), group(out[j])
		if gi != gj {
			return gi < gj
		}
		if gi == 0 && out[i].Status.TotalChanges() != out[j].Status.TotalChanges() {
			return out[i].Status.TotalChanges() > out[j].Status.TotalChanges()
		}
		return out[i].Repo.Rel < out[j].Repo.Rel
	})
	return out
}

func (p *Printer) printMinimal(rec model.Record) {
	s := rec.Status
	fmt.Fprintf(p.w, "| %s: %s\n", styleName.Render(rec.Repo.DisplayName()), styleBranch.Render("["+branchLabel(s)+"]"))
	counts := fmt.Sprintf("| ?%d | +%d | ~%d | -%d |", s.Untracked, s.Added, s.Modified, s.Deleted)
	if s.IsDirty() {
		fmt.Fprintln(p.w, styleDirty.Render(counts))
	} else {
		fmt.Fprintln(p.w, styleClean.Render(counts))
	}
}

func (p *Printer) printExpressive(rec model.Record) {
	s := rec.Status

	header := fmt.Sprintf("| %s: %s", styleName.Render(rec.Repo.DisplayName()), styleBranch.Render("["+branchLabel(s)+"]"))
	if s.HasUpstream() {
		header += styleDim.Render(fmt.Sprintf(" %s ↑%d ↓%d", s.Upstream, s.Ahead, s.Behind))
	} else {
		header += styleDim.Render(" no upstream")
	}
	fmt.Fprintln(p.w, header)

	if !s.IsDirty() {
		fmt.Fprintln(p.w, styleClean.Render("| clean"))
		return
	}

	lines := []struct {
		label string
		count int
	}{
		{"untracked", s.Untracked},
		{"added", s.Added},
		{"modified", s.Modified},
		{"deleted", s.Deleted},
		{"staged", s.Staged},
		{"conflict", s.Conflict},
		{"other", s.Other},
	}
	for _, l := range lines {
		if l.count > 0 {
			fmt.Fprintln(p.w, styleDirty.Render(fmt.Sprintf("| %-9s %d", l.label, l.count)))
		}
	}
}

func (p *Printer) printFailure(rec model.Record) {
	fmt.Fprintf(p.w, "| %s: %s\n", styleName.Render(rec.Repo.DisplayName()),
		styleFailed.Render(fmt.Sprintf("error (%s)", rec.Failure.Kind)))
	if rec.Failure.Reason != "" {
		fmt.Fprintln(p.w, styleDim.Render("| "+rec.Failure.Reason))
	}
}

func (p *Printer) printSummary(report *model.Report) {
	summary := fmt.Sprintf("%d repositories · %d dirty · %d failed (%s)",
		len(report.Records), report.DirtyCount(), report.FailedCount(),
		report.Duration.Round(time.Millisecond))
	fmt.Fprintln(p.w, styleDim.Render(summary))

	if report.Interrupted {
		fmt.Fprintln(p.w, styleFailed.Render("scan interrupted, partial results"))
	}
	if report.NoUsableGit {
		fmt.Fprintln(p.w, styleFailed.Render("no usable git binary found in PATH"))
	}
}

func branchLabel(s *model.RepoStatus) string {
	if s.Branch != "" {
		return s.Branch
	}
	if s.DetachedHead && s.CommitHash != "" {
		return s.CommitHash
	}
	return "???"
}
