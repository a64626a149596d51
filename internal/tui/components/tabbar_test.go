package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestRenderTabBarPadsToWidth(t *testing.T) {
	for _, w := range []int{60, 120} {
		bar := RenderTabBar(0, w)
		if got := lipgloss.Width(bar); got != w {
			t.Fatalf("RenderTabBar width = %d, want %d", got, w)
		}
	}
}

func TestRenderTabBarMarksInactiveShortcuts(t *testing.T) {
	bar := RenderTabBar(1, 80)
	if !strings.Contains(bar, Tabs[1].Name) {
		t.Fatalf("active tab %q missing from bar", Tabs[1].Name)
	}
	// Inactive tabs carry bracketed shortcut letters. Strip ANSI escape
	// sequences first so their CSI "[" bytes don't inflate the count.
	if got, want := strings.Count(ansi.Strip(bar), "["), len(Tabs)-1; got != want {
		t.Fatalf("shortcut brackets = %d, want %d", got, want)
	}
}
