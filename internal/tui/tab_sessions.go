package tui

import (
	"fmt"
	"strings"

	"github.com/Wanderer0074348/hlm/internal/cli"
	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSessionsTab(cw, contentH int) string {
	t := theme.Active

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	errStyle := lipgloss.NewStyle().Foreground(t.Red)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Bold(true)

	var b strings.Builder

	if a.sessLoading {
		b.WriteString("\n  " + a.spinner.View() + dimStyle.Render(" loading sessions..."))
		return b.String()
	}
	if a.sessErr != "" {
		b.WriteString("\n  " + errStyle.Render(a.sessErr))
		b.WriteString("\n  " + dimStyle.Render("[r] retry"))
		return b.String()
	}
	if len(a.sessions) == 0 {
		b.WriteString("\n  " + dimStyle.Render("No saved conversations."))
		b.WriteString("\n  " + dimStyle.Render("[n] start a new one"))
		return b.String()
	}

	titleW := cw - 44
	if titleW < 20 {
		titleW = 20
	}

	b.WriteString("  " + headStyle.Render(fmt.Sprintf("%-*s %6s  %-12s", titleW, "Title", "Msgs", "Last Active")))
	b.WriteString("\n")

	// Viewport over the list, keeping the cursor visible.
	visible := contentH - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if a.sessCursor >= visible {
		start = a.sessCursor - visible + 1
	}
	end := start + visible
	if end > len(a.sessions) {
		end = len(a.sessions)
	}

	current := a.conv.SessionID()
	for i := start; i < end; i++ {
		s := a.sessions[i]
		title := s.Title
		if title == "" {
			title = truncStr(s.SessionID, 12)
		}
		marker := " "
		if s.SessionID == current {
			marker = "●"
		}
		line := fmt.Sprintf("%s %-*s %6d  %-12s",
			marker,
			titleW, truncStr(title, titleW),
			s.MessageCount,
			cli.FormatRelativeTime(s.LastInteraction))
		if i == a.sessCursor {
			b.WriteString(" " + selStyle.Render(line))
		} else {
			b.WriteString(" " + rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.confirmDelete != "" {
		b.WriteString("  " + warnStyle.Render("Delete this conversation? [y] yes  [any] cancel"))
	} else {
		b.WriteString("  " + dimStyle.Render("[enter] open  [x] delete  [n] new  [r] refresh"))
	}

	return b.String()
}
