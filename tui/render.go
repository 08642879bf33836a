package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/repohub/repohub/internal/model"
)

const (
	colBranch = 22
	colSync   = 10
	colBar    = 12
)

func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styleTitle.Render("repohub")

	var activity string
	switch m.phase {
	case PhaseScanning:
		activity = styleDim.Render(fmt.Sprintf(" %s scanning %s", spinnerFrames[m.frame%len(spinnerFrames)], m.req.Root))
	case PhaseFetching:
		activity = styleDim.Render(fmt.Sprintf(" %s fetching %s", spinnerFrames[m.frame%len(spinnerFrames)], m.fetchTarget))
	default:
		activity = styleDim.Render(" " + m.req.Root)
	}

	dirty, failed := 0, 0
	for _, rec := range m.records {
		if rec.Failed() {
			failed++
		} else if rec.Status.IsDirty() {
			dirty++
		}
	}
	stats := fmt.Sprintf("%d repos · %s · %s",
		len(m.records),
		styleDirty.Render(fmt.Sprintf("%d dirty", dirty)),
		styleFailed.Render(fmt.Sprintf("%d failed", failed)))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(activity) - lipgloss.Width(stats)
	if gap < 1 {
		gap = 1
	}

	line1 := title + activity + strings.Repeat(" ", gap) + stats
	line2 := m.renderTabs()
	return ansi.Truncate(line1, m.width, "") + "\n" + line2
}

func (m *Model) renderTabs() string {
	tabs := []struct {
		label string
		view  ViewFilter
	}{
		{"1 all", ViewAll},
		{"2 dirty", ViewDirty},
		{"3 failed", ViewFailed},
	}

	var parts []string
	for _, t := range tabs {
		if t.view == m.viewFilter {
			parts = append(parts, styleTabActive.Render(t.label))
		} else {
			parts = append(parts, styleTab.Render(t.label))
		}
	}

	line := strings.Join(parts, " ")
	if m.filterMode {
		line += "  " + m.filterInput.View()
	} else if m.filterText != "" {
		line += "  " + styleDim.Render("filter: "+m.filterText)
	}
	return ansi.Truncate(line, m.width, "")
}

func (m *Model) renderTable() string {
	nameWidth := m.width - colBranch - colSync - colBar - 10
	if nameWidth < 12 {
		nameWidth = 12
	}

	var b strings.Builder
	header := fmt.Sprintf("  %s %s %s %s",
		padRight("REPO", nameWidth),
		padRight("BRANCH", colBranch),
		padRight("SYNC", colSync),
		"CHANGES")
	b.WriteString(styleHeader.Render(ansi.Truncate(header, m.width, "")))
	b.WriteString("\n")

	page := m.pageSize()
	end := m.scrollOffset + page
	if end > len(m.rows) {
		end = len(m.rows)
	}

	if len(m.rows) == 0 {
		msg := "no repositories"
		if m.phase == PhaseScanning {
			msg = "scanning..."
		}
		b.WriteString(styleDim.Render("  " + msg))
		b.WriteString("\n")
	}

	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor, nameWidth))
		b.WriteString("\n")
	}

	// pad so the footer stays pinned
	drawn := end - m.scrollOffset
	if len(m.rows) == 0 {
		drawn = 1
	}
	for i := drawn; i < page; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderRow(rec model.Record, selected bool, nameWidth int) string {
	marker := "  "
	if selected {
		marker = styleTitle.Render("▸ ")
	}

	name := truncateWithEllipsis(rec.Repo.DisplayName(), nameWidth)
	if rec.Repo.IsWorktree {
		name = truncateWithEllipsis(rec.Repo.DisplayName()+" ⎇", nameWidth)
	}

	var line string
	if rec.Failed() {
		reason := rec.Failure.Reason
		if m.verbose {
			reason = fmt.Sprintf("%s: %s", rec.Failure.Kind, rec.Failure.Reason)
		}
		line = fmt.Sprintf("%s %s %s",
			padRight(styleFailed.Render(name), nameWidth),
			padRight(styleDim.Render("—"), colBranch),
			styleFailed.Render(truncateWithEllipsis(reason, colSync+colBar+8)))
	} else {
		st := rec.Status

		nameStyled := styleClean.Render(name)
		if st.IsDirty() {
			nameStyled = styleDirty.Render(name)
		}

		branch := branchLabel(st)
		sync := syncLabel(st)

		changes := ""
		if st.IsDirty() {
			changes = renderStackedBar(st.Staged, st.Modified+st.Deleted, st.Untracked+st.Added, colBar) +
				fmt.Sprintf(" %d", st.TotalChanges())
		} else {
			changes = styleClean.Render("clean")
		}

		line = fmt.Sprintf("%s %s %s %s",
			padRight(nameStyled, nameWidth),
			padRight(styleBranch.Render(branch), colBranch),
			padRight(sync, colSync),
			changes)
	}

	row := marker + line
	if selected {
		return styleSelected.Render(ansi.Truncate(ansi.Strip(row), m.width, ""))
	}
	return ansi.Truncate(row, m.width, "")
}

func branchLabel(st *model.RepoStatus) string {
	switch {
	case st.DetachedHead && st.CommitHash != "":
		return truncateWithEllipsis("@"+st.CommitHash, colBranch-1)
	case st.Branch != "":
		return truncateWithEllipsis(st.Branch, colBranch-1)
	default:
		return "???"
	}
}

func syncLabel(st *model.RepoStatus) string {
	if !st.HasUpstream() {
		return styleDim.Render("-")
	}
	if st.Ahead == 0 && st.Behind == 0 {
		return styleClean.Render("✓")
	}
	var parts []string
	if st.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("↑%d", st.Ahead))
	}
	if st.Behind > 0 {
		parts = append(parts, fmt.Sprintf("↓%d", st.Behind))
	}
	return styleDirty.Render(strings.Join(parts, " "))
}

func (m *Model) renderFooter() string {
	var status string
	switch {
	case m.err != nil:
		status = styleFailed.Render("error: " + m.err.Error())
	case m.report != nil && m.report.NoUsableGit:
		status = styleFailed.Render("no usable git binary found in PATH")
	case m.report != nil && m.report.Interrupted:
		status = styleDirty.Render("scan interrupted · partial results")
	case m.report != nil:
		status = styleDim.Render(fmt.Sprintf("scanned in %s", m.report.Duration.Round(time.Millisecond*10)))
	default:
		status = ""
	}

	keys := styleDim.Render("j/k move · / filter · f fetch · r rescan · ? help · q quit")
	gap := m.width - lipgloss.Width(keys) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return ansi.Truncate(keys+strings.Repeat(" ", gap)+status, m.width, "")
}

func (m *Model) renderHelp() string {
	lines := m.keys.helpText()
	content := styleTitle.Render("repohub keys") + "\n\n" + strings.Join(lines, "\n")
	box := styleHelpBox.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
