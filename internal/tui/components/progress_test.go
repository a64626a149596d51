package components

import (
	"strings"
	"testing"
)

func TestProgressBarFillMatchesPct(t *testing.T) {
	out := ProgressBar(0.5, 10)
	if got := strings.Count(out, "█"); got != 5 {
		t.Fatalf("filled cells = %d, want 5", got)
	}
	if got := strings.Count(out, "░"); got != 5 {
		t.Fatalf("empty cells = %d, want 5", got)
	}
	if !strings.Contains(out, "50%") {
		t.Fatal("percentage label missing")
	}
}

func TestProgressBarClampsOutOfRange(t *testing.T) {
	over := ProgressBar(1.4, 8)
	if got := strings.Count(over, "█"); got != 8 {
		t.Fatalf("overfull bar filled cells = %d, want 8", got)
	}
	under := ProgressBar(-0.2, 8)
	if got := strings.Count(under, "░"); got != 8 {
		t.Fatalf("negative bar empty cells = %d, want 8", got)
	}
}
