package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTitleBoxesTheTitle(t *testing.T) {
	out := RenderTitle("HYBRIDLM STATUS")
	if !strings.Contains(out, "HYBRIDLM STATUS") {
		t.Fatal("title text missing from output")
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want a 3-line box", len(lines))
	}
	want := lipgloss.Width(lines[0])
	for i, ln := range lines[1:] {
		if got := lipgloss.Width(ln); got != want {
			t.Fatalf("line %d width = %d, want %d", i+1, got, want)
		}
	}
}

func TestRenderTableShowsHeadersAndRows(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Model", "Queries"},
		Rows: [][]string{
			{"edge-slm", "12"},
			{"cloud-llm", "3"},
		},
	})
	for _, cell := range []string{"Model", "Queries", "edge-slm", "cloud-llm"} {
		if !strings.Contains(out, cell) {
			t.Fatalf("cell %q missing from table", cell)
		}
	}
}
