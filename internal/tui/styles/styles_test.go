package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHealthBarWidth(t *testing.T) {
	for _, score := range []float64{-10, 0, 42, 80, 100, 150} {
		got := lipgloss.Width(HealthBar(score, 20))
		if got != 20 {
			t.Errorf("HealthBar(%.0f) width = %d, want 20", score, got)
		}
	}
}

func TestShareBar(t *testing.T) {
	out := ShareBar(1, 4, 8)
	if strings.Count(out, "█") != 2 {
		t.Errorf("expected 2 filled cells for 1/4 of 8, got %q", out)
	}
	if strings.Count(ShareBar(3, 0, 8), "█") != 0 {
		t.Error("expected empty bar when total is zero")
	}
	if ShareBar(1, 1, 0) != "" {
		t.Error("expected no output for zero width")
	}
}
