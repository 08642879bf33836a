package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = lipgloss.Color("205")
	colorDirty   = lipgloss.Color("214")
	colorClean   = lipgloss.Color("82")
	colorFailed  = lipgloss.Color("196")
	colorDim     = lipgloss.Color("241")
	colorStaged  = lipgloss.Color("82")
	colorChanged = lipgloss.Color("214")
	colorUntrack = lipgloss.Color("81")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)

	styleDirty  = lipgloss.NewStyle().Foreground(colorDirty)
	styleClean  = lipgloss.NewStyle().Foreground(colorClean)
	styleFailed = lipgloss.NewStyle().Foreground(colorFailed)
	styleBranch = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorDim)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Bold(true)

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(colorAccent).
			Padding(0, 1)

	styleTab = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	styleHelpBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func truncateWithEllipsis(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	runes := []rune(s)
	out := make([]rune, 0, max)
	w := 0
	for _, r := range runes {
		rw := lipgloss.Width(string(r))
		if w+rw > max-1 {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out) + "…"
}

func padRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
