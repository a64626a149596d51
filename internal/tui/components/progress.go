package components

import (
	"fmt"
	"strings"

	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a progress bar with a trailing percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Bold(true)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + " " + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// SplitBar renders a labeled two-segment bar for an experiment's
// traffic split. pct is the treatment share in [0,1].
func SplitBar(control, treatment string, pct float64, barWidth int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Magenta)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Blue)

	controlStyle := lipgloss.NewStyle().Foreground(t.Blue)
	treatStyle := lipgloss.NewStyle().Foreground(t.Magenta)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	return controlStyle.Render(control) + " " +
		bar.ViewAs(pct) + " " +
		treatStyle.Render(treatment) + " " +
		pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}
