package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStackedBar draws a fixed-width bar split proportionally between
// staged, modified/deleted and untracked counts.
func renderStackedBar(staged, changed, untracked, width int) string {
	total := staged + changed + untracked
	if total == 0 || width <= 0 {
		return strings.Repeat(" ", width)
	}

	segs := []struct {
		n     int
		color lipgloss.Color
	}{
		{staged, colorStaged},
		{changed, colorChanged},
		{untracked, colorUntrack},
	}

	var b strings.Builder
	used := 0
	for i, seg := range segs {
		if seg.n == 0 {
			continue
		}
		w := seg.n * width / total
		if w == 0 {
			w = 1
		}
		if i == len(segs)-1 || used+w > width {
			w = width - used
		}
		if w <= 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(seg.color).Render(strings.Repeat("█", w)))
		used += w
	}
	if used < width {
		b.WriteString(styleDim.Render(strings.Repeat("░", width-used)))
	}
	return b.String()
}
