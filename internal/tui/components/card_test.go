package components

import (
	"strings"
	"testing"

	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so styles render deterministically in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
	theme.SetActive("flexoki-dark")
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	tests := []struct {
		total, n int
	}{
		{120, 4},
		{121, 4},
		{123, 4},
		{80, 3},
		{7, 2},
	}
	for _, tt := range tests {
		widths := LayoutRow(tt.total, tt.n)
		if len(widths) != tt.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tt.total, tt.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
			if w < tt.total/tt.n {
				t.Errorf("LayoutRow(%d, %d): width %d below base", tt.total, tt.n, w)
			}
		}
		if sum != tt.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tt.total, tt.n, sum)
		}
	}
}

func TestLayoutRowZeroItems(t *testing.T) {
	if got := LayoutRow(100, 0); got != nil {
		t.Fatalf("LayoutRow(100, 0) = %v, want nil", got)
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d (tallest card)", len(lines), tallLines)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	cards := []struct{ Label, Value, Delta string }{
		{"Queries", "42", "last 100 kept"},
		{"Cache", "61.9%", "26 hits"},
		{"Latency", "0.05s", "average"},
		{"Cost", "$0.0123", "saved $0.0456"},
	}
	row := MetricCardRow(cards, 120)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 120 {
			t.Errorf("line %d width = %d, want 120", i, w)
		}
	}
}

func TestHBarListScalesToPeak(t *testing.T) {
	items := []HBarItem{
		{Label: "edge-slm", Value: 60},
		{Label: "cloud-llm", Value: 30},
	}
	out := HBarList(items, theme.Active.Accent, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("HBarList rendered %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "edge-slm") || !strings.Contains(lines[1], "cloud-llm") {
		t.Errorf("labels missing from output: %q", out)
	}
	top := strings.Count(lines[0], "█")
	bottom := strings.Count(lines[1], "█")
	if top <= bottom {
		t.Errorf("peak row should have the longest bar: %d vs %d", top, bottom)
	}
}
