package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	cells lipgloss.Style
	title lipgloss.Style
	value lipgloss.Style
	label lipgloss.Style
	spark lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		cells: lipgloss.NewStyle().Foreground(t.Alive),
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		value: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		label: lipgloss.NewStyle().Foreground(t.Muted),
		spark: lipgloss.NewStyle().Foreground(t.Accent),
	}
}

// Sparkline renders the last width values as block characters scaled
// between their min and max.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
