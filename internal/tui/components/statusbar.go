package components

import (
	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. account is the
// signed-in identity (empty while unauthenticated); backend is the
// API endpoint in use.
func RenderStatusBar(width int, account, backend string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	accountStyle := lipgloss.NewStyle().
		Foreground(t.Green)

	left := " [?]help  [q]uit"

	right := ""
	if account != "" {
		right = accountStyle.Render(account) + "  "
	}
	right += backend + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
