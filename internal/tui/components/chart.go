package components

import (
	"fmt"
	"strings"

	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// HBarItem is one row of a horizontal bar list.
type HBarItem struct {
	Label string
	Value float64
}

// HBarList renders labeled horizontal bars scaled to the largest value.
// width is the total line width including label and count columns.
func HBarList(items []HBarItem, color lipgloss.Color, width int) string {
	if len(items) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	peak := 0.0
	for _, it := range items {
		if w := lipgloss.Width(it.Label); w > labelW {
			labelW = w
		}
		if it.Value > peak {
			peak = it.Value
		}
	}
	if labelW > 24 {
		labelW = 24
	}
	if peak == 0 {
		peak = 1
	}

	countW := 6
	barW := width - labelW - countW - 2
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(color)
	trackStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	for i, it := range items {
		label := it.Label
		if lipgloss.Width(label) > labelW {
			label = label[:labelW-1] + "…"
		}
		filled := int(it.Value / peak * float64(barW))
		if filled < 1 && it.Value > 0 {
			filled = 1
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(trackStyle.Render(strings.Repeat("░", barW-filled)))
		b.WriteString(" ")
		b.WriteString(countStyle.Render(fmt.Sprintf("%*.0f", countW-1, it.Value)))
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
