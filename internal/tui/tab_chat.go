package tui

import (
	"fmt"
	"strings"

	"github.com/Wanderer0074348/hlm/internal/api"
	"github.com/Wanderer0074348/hlm/internal/chat"
	"github.com/Wanderer0074348/hlm/internal/cli"
	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderChatTab(cw, contentH int) string {
	t := theme.Active

	inputBox := a.renderChatInput(cw)
	statsLine := a.renderChatStats(cw)

	footerH := lipgloss.Height(inputBox) + lipgloss.Height(statsLine)
	if a.chatErr != "" {
		footerH++
	}
	transcriptH := contentH - footerH
	if transcriptH < 3 {
		transcriptH = 3
	}

	transcript := a.renderTranscript(cw, transcriptH)

	var b strings.Builder
	b.WriteString(transcript)
	b.WriteString("\n")
	if a.chatErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		b.WriteString(errStyle.Render(" " + a.chatErr))
		b.WriteString("\n")
	}
	b.WriteString(inputBox)
	b.WriteString("\n")
	b.WriteString(statsLine)

	return b.String()
}

// renderTranscript renders the last lines of the message log that fit
// in height, honoring the scroll offset from the bottom.
func (a App) renderTranscript(cw, height int) string {
	t := theme.Active
	msgs := a.conv.Messages()

	if len(msgs) == 0 && !a.sending && !a.conv.Loading() {
		hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		empty := "\n  " + hintStyle.Render("No messages yet. Type below and press Enter.")
		if id := a.conv.SessionID(); id != "" {
			empty += "\n  " + hintStyle.Render("Session "+truncStr(id, 12))
		}
		return padHeight(empty, height)
	}

	var lines []string
	for _, m := range msgs {
		lines = append(lines, a.renderMessage(m, cw)...)
		lines = append(lines, "")
	}
	if a.sending {
		waitStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		lines = append(lines, "  "+a.spinner.View()+waitStyle.Render(" routing..."))
	}
	if a.conv.Loading() {
		waitStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		lines = append(lines, "  "+a.spinner.View()+waitStyle.Render(" loading conversation..."))
	}

	// Window of `height` lines ending chatScroll above the bottom.
	end := len(lines) - a.chatScroll
	if end > len(lines) {
		end = len(lines)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}

	return padHeight(strings.Join(lines[start:end], "\n"), height)
}

func (a App) renderMessage(m chat.Message, cw int) []string {
	t := theme.Active

	youStyle := lipgloss.NewStyle().Foreground(t.Blue).Bold(true)
	botStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	sysStyle := lipgloss.NewStyle().Foreground(t.Yellow).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var label string
	switch m.Role {
	case api.RoleUser:
		label = youStyle.Render("you")
	case api.RoleAssistant:
		label = botStyle.Render("hlm")
	default:
		label = sysStyle.Render(string(m.Role))
	}

	var lines []string
	lines = append(lines, "  "+label)

	wrapW := cw - 6
	if wrapW < 20 {
		wrapW = 20
	}
	for _, ln := range wrapText(m.Content, wrapW) {
		lines = append(lines, "  "+bodyStyle.Render(ln))
	}

	if m.Meta != nil {
		lines = append(lines, "  "+a.renderMeta(m.Meta))
	}
	return lines
}

func (a App) renderMeta(meta *chat.Metadata) string {
	t := theme.Active

	metaStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	hitStyle := lipgloss.NewStyle().Foreground(t.Green)
	voteStyle := lipgloss.NewStyle().Foreground(t.Magenta)

	parts := []string{meta.ModelUsed, meta.RoutingReason, cli.FormatLatency(meta.Latency)}
	if meta.CacheHit {
		parts = append(parts, hitStyle.Render("cached"))
	}
	if meta.CostMetrics != nil {
		parts = append(parts, cli.FormatCost(meta.CostMetrics.TotalCost))
	}
	line := metaStyle.Render(strings.Join(parts, " · "))

	if meta.DecisionID != "" {
		switch a.votes[meta.DecisionID] {
		case voteSent:
			line += " " + voteStyle.Render("✓ feedback sent")
		case votePending:
			line += " " + metaStyle.Render("sending feedback...")
		default:
			line += " " + metaStyle.Render("[u/d] rate")
		}
	}
	return line
}

func (a App) renderChatInput(cw int) string {
	t := theme.Active

	border := t.Border
	if a.input.Focused() {
		border = t.BorderAccent
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 4).
		Padding(0, 1)

	return boxStyle.Render(a.input.View())
}

func (a App) renderChatStats(cw int) string {
	t := theme.Active
	stats := a.conv.Stats()

	style := lipgloss.NewStyle().Foreground(t.TextMuted)

	parts := []string{
		fmt.Sprintf("%d messages", stats.Messages),
		cli.FormatTokens(stats.TotalTokens) + " tokens",
	}
	if stats.AvgLatency > 0 {
		parts = append(parts, fmt.Sprintf("avg %s", cli.FormatLatency(stats.AvgLatency)))
	}
	if stats.CacheHits > 0 {
		parts = append(parts, fmt.Sprintf("%d cache hits", stats.CacheHits))
	}
	if !a.input.Focused() {
		parts = append(parts, "[i] type")
	}

	return " " + style.Render(strings.Join(parts, " · "))
}

// wrapText splits s into lines at most width cells wide, breaking on
// spaces where possible.
func wrapText(s string, width int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case lipgloss.Width(line)+1+lipgloss.Width(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
			for lipgloss.Width(line) > width {
				runes := []rune(line)
				out = append(out, string(runes[:width]))
				line = string(runes[width:])
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
