// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, panels and the health/share bars used by the dashboard

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Campaign Watch palette
var (
	Primary   = lipgloss.Color("#0EA5E9") // Sky
	Secondary = lipgloss.Color("#22C55E") // Green, healthy
	Warning   = lipgloss.Color("#EAB308") // Yellow, attention
	Danger    = lipgloss.Color("#DC2626") // Red, critical
	Muted     = lipgloss.Color("#64748B") // Slate
	Text      = lipgloss.Color("#F1F5F9")
	Accent    = lipgloss.Color("#38BDF8")
	Surface   = lipgloss.Color("#334155") // Empty bar cells
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	Subtitle = lipgloss.NewStyle().Foreground(Muted)
	Help     = lipgloss.NewStyle().Foreground(Muted).MarginTop(1)

	StatusOK       = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	StatusWarning  = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	StatusCritical = lipgloss.NewStyle().Foreground(Danger).Bold(true)

	KeyStyle   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)

	Panel       = panel(Muted)
	ActivePanel = panel(Primary)
)

func panel(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

// HealthBar renders a 0-100 score where higher is better.
func HealthBar(score float64, width int) string {
	color := Secondary
	switch {
	case score < 50:
		color = Danger
	case score < 80:
		color = Warning
	}
	return bar(score/100.0, width, color)
}

// ShareBar renders count as a share of total.
func ShareBar(count, total, width int) string {
	if total <= 0 {
		return bar(0, width, Primary)
	}
	return bar(float64(count)/float64(total), width, Primary)
}

func bar(fraction float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(fraction*float64(width)), 0), width)

	full := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	empty := lipgloss.NewStyle().Foreground(Surface).Render(strings.Repeat("░", width-filled))
	return full + empty
}
