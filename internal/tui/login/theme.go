package login

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rodriigosc/campaign-watch/internal/tui/styles"
)

// createTheme adapts huh's base theme to the dashboard palette.
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t.Group.Title = fg(styles.Primary).Bold(true).MarginBottom(1)
	t.Group.Description = fg(styles.Muted).MarginBottom(1)

	focused := &t.Focused
	focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	focused.Title = fg(styles.Accent).Bold(true)
	focused.Description = fg(styles.Muted)
	focused.ErrorIndicator = fg(styles.Danger).SetString(" *")
	focused.ErrorMessage = fg(styles.Danger)
	focused.TextInput.Cursor = fg(styles.Accent)
	focused.TextInput.Placeholder = fg(styles.Muted)
	focused.TextInput.Prompt = fg(styles.Primary)
	focused.TextInput.Text = fg(styles.Text)

	// Blurred fields keep the layout but drop the highlight.
	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = fg(styles.Muted)

	return t
}
