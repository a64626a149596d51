package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Wanderer0074348/hlm/internal/analytics"
	"github.com/Wanderer0074348/hlm/internal/api"
	"github.com/Wanderer0074348/hlm/internal/cli"
	"github.com/Wanderer0074348/hlm/internal/tui/components"
	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func (a App) renderAnalyticsTab(cw int) string {
	t := theme.Active
	s := a.summary
	var b strings.Builder

	cards := []struct{ Label, Value, Delta string }{
		{"Queries", cli.FormatNumber(int64(s.Queries)), fmt.Sprintf("last %d kept", analytics.HistoryLimit)},
		{"Cache", cli.FormatPercent(s.CacheHitRate), fmt.Sprintf("%d hits", s.CacheHits)},
		{"Latency", cli.FormatLatency(s.AvgLatency), "average"},
		{"Cost", cli.FormatCost(s.TotalCost), "saved " + cli.FormatCost(s.TotalSavings)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Latency trend, oldest left. Records arrive newest first.
	if len(a.records) > 1 {
		vals := make([]float64, len(a.records))
		for i, r := range a.records {
			vals[len(a.records)-1-i] = r.Latency.Seconds()
		}
		innerW := components.CardInnerWidth(cw)
		if len(vals) > innerW {
			vals = vals[len(vals)-innerW:]
		}
		b.WriteString(components.ContentCard(
			"Latency Trend",
			components.Sparkline(vals, t.Blue),
			cw,
		))
		b.WriteString("\n")
	}

	if len(s.Models) > 0 {
		items := make([]components.HBarItem, len(s.Models))
		for i, m := range s.Models {
			items[i] = components.HBarItem{Label: m.Model, Value: float64(m.Queries)}
		}
		b.WriteString(components.ContentCard(
			"Model Distribution",
			components.HBarList(items, t.Accent, components.CardInnerWidth(cw)),
			cw,
		))
		b.WriteString("\n")
	}

	halves := components.LayoutRow(cw, 2)
	abCard := components.ContentCard("A/B Test", a.renderABTest(components.CardInnerWidth(halves[0])), halves[0])
	trainCard := components.ContentCard("Router Training", a.renderTraining(components.CardInnerWidth(halves[1])), halves[1])
	b.WriteString(components.CardRow([]string{abCard, trainCard}))

	if a.abErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		b.WriteString("\n ")
		b.WriteString(errStyle.Render(a.abErr))
	}

	return b.String()
}

func (a App) renderABTest(innerW int) string {
	t := theme.Active

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	if a.ending {
		return a.spinner.View() + mutedStyle.Render(" ending test...")
	}
	if a.test == nil {
		return dimStyle.Render("No experiment running.\n[b] begin one")
	}

	test := a.test
	barW := innerW - lipgloss.Width(test.ControlGroup) - lipgloss.Width(test.TreatmentGroup) - 8
	if barW < 6 {
		barW = 6
	}

	var b strings.Builder
	b.WriteString(textStyle.Render(test.Name))
	b.WriteString("\n")
	b.WriteString(components.SplitBar(test.ControlGroup, test.TreatmentGroup, test.TrafficSplit, barW))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("since " + cli.FormatRelativeTime(test.StartedAt)))
	b.WriteString(dimStyle.Render("  [e] end"))
	return b.String()
}

func (a App) renderTraining(innerW int) string {
	t := theme.Active

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valStyle := lipgloss.NewStyle().Foreground(t.Green)

	if a.training {
		return a.spinner.View() + mutedStyle.Render(" training router...")
	}
	if a.trainRes == nil {
		return dimStyle.Render("Retrain the router on collected feedback.\n[t] start")
	}

	m := a.trainRes.Metrics
	barW := innerW - lipgloss.Width("accuracy ") - 6
	if barW < 6 {
		barW = 6
	}
	var b strings.Builder
	b.WriteString(mutedStyle.Render("accuracy "))
	b.WriteString(components.ProgressBar(m.Accuracy, barW))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("f1 "))
	b.WriteString(valStyle.Render(fmt.Sprintf("%.3f", m.F1Score)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d train / %d validation samples",
		m.TrainingSamples, m.ValidationSamples)))
	if a.trainRes.Version != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("model version " + a.trainRes.Version))
	}
	return b.String()
}

// ─── Create-test form ───────────────────────────────────────────

func newCreateTestForm() *huh.Form {
	notEmpty := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("required")
		}
		return nil
	}
	validSplit := func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || v < 0 || v > 1 {
			return fmt.Errorf("enter a fraction between 0 and 1")
		}
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Experiment name").
				Validate(notEmpty),
			huh.NewInput().
				Key("control").
				Title("Control strategy").
				Placeholder("rule-based").
				Validate(notEmpty),
			huh.NewInput().
				Key("treatment").
				Title("Treatment strategy").
				Placeholder("ml-routing").
				Validate(notEmpty),
			huh.NewInput().
				Key("split").
				Title("Traffic split to treatment (0-1)").
				Placeholder("0.5").
				Validate(validSplit),
		),
	)
}

func (a App) updateTestForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.testForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.testForm = f
	}

	if a.testForm.State == huh.StateCompleted {
		split, _ := strconv.ParseFloat(strings.TrimSpace(a.testForm.GetString("split")), 64)
		req := api.CreateABTestRequest{
			Name:           strings.TrimSpace(a.testForm.GetString("name")),
			ControlGroup:   strings.TrimSpace(a.testForm.GetString("control")),
			TreatmentGroup: strings.TrimSpace(a.testForm.GetString("treatment")),
			TrafficSplit:   split,
		}
		a.testForm = nil
		return a, a.createTestCmd(req)
	}

	if a.testForm.State == huh.StateAborted {
		a.testForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) createTestCmd(req api.CreateABTestRequest) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		test, err := client.CreateABTest(ctx, req)
		return TestCreatedMsg{Test: test, Err: err}
	}
}
