// ABOUTME: Dashboard component displaying the monitoring overview
// ABOUTME: Shows headline numbers, status and health breakdowns, issues and upcoming runs

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rodriigosc/campaign-watch/internal/tui/icons"
	"github.com/rodriigosc/campaign-watch/internal/tui/styles"
	"github.com/rodriigosc/campaign-watch/internal/tui/widgets"
	"github.com/rodriigosc/campaign-watch/services"
)

const (
	barWidth    = 20
	maxIssues   = 5
	maxUpcoming = 5
)

// Dashboard displays an Overview
type Dashboard struct {
	overview *services.Overview
	width    int
	height   int
}

// New creates a dashboard for the given overview, which may be nil while loading
func New(o *services.Overview, width, height int) *Dashboard {
	return &Dashboard{
		overview: o,
		width:    width,
		height:   height,
	}
}

// Update replaces the overview after a refresh
func (d *Dashboard) Update(o *services.Overview) {
	d.overview = o
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.overview == nil || d.overview.Data == nil {
		return lipgloss.NewStyle().Width(d.width).Render("Loading monitoring data...")
	}

	var sb strings.Builder
	s := d.overview.Data.Summary

	sb.WriteString(styles.Title.Render("Campaign Health"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Campaigns: %s (%d active)\n",
		styles.ValueStyle.Render(fmt.Sprint(s.TotalCampaigns)), s.ActiveCampaigns))
	sb.WriteString(fmt.Sprintf("With issues: %s\n", issuesStyle(s.CampaignsWithIssues).Render(fmt.Sprint(s.CampaignsWithIssues))))
	sb.WriteString(fmt.Sprintf("Executions today: %d (%d ok)\n", s.TotalExecutionsToday, s.SuccessfulExecutionsToday))
	sb.WriteString("\nHealth score\n")
	sb.WriteString(styles.HealthBar(s.OverallHealthScore, barWidth))
	sb.WriteString(fmt.Sprintf(" %.0f\n", s.OverallHealthScore))

	if len(d.overview.ByHealth) > 0 {
		sb.WriteString("\nBy health\n")
		total := 0
		for _, h := range d.overview.ByHealth {
			total += h.Count
		}
		for _, h := range d.overview.ByHealth {
			label := widgets.StatusText(fmt.Sprintf("%-9s", h.HealthLevel), widgets.HealthLevel(h.HealthLevel))
			sb.WriteString(fmt.Sprintf("  %s %s %d\n", label, styles.ShareBar(h.Count, total, barWidth/2), h.Count))
		}
	}

	if len(d.overview.ByStatus) > 0 {
		sb.WriteString("\nBy status\n")
		total := 0
		for _, st := range d.overview.ByStatus {
			total += st.Count
		}
		for _, st := range d.overview.ByStatus {
			sb.WriteString(fmt.Sprintf("  %-11s %s %d\n", st.Status, styles.ShareBar(st.Count, total, barWidth/2), st.Count))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(d.viewIssues())
	sb.WriteString("\n")
	sb.WriteString(d.viewUpcoming())

	return lipgloss.NewStyle().
		Width(d.width).
		MaxHeight(d.height).
		Render(sb.String())
}

func issuesStyle(n int) lipgloss.Style {
	if n > 0 {
		return styles.StatusWarning
	}
	return styles.StatusOK
}

func (d *Dashboard) viewIssues() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Warning.String() + " Recent issues"))
	sb.WriteString("\n")
	if len(d.overview.Issues) == 0 {
		sb.WriteString(styles.StatusOK.Render("No recent issues"))
		sb.WriteString("\n")
		return sb.String()
	}
	for i, is := range d.overview.Issues {
		if i == maxIssues {
			sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("  +%d more", len(d.overview.Issues)-maxIssues)))
			sb.WriteString("\n")
			break
		}
		sb.WriteString(fmt.Sprintf("%s %s / %s\n  %s\n",
			widgets.SeverityBadge(is.Severity), is.ClientName, is.CampaignName,
			styles.Subtitle.Render(is.Description)))
	}
	return sb.String()
}

func (d *Dashboard) viewUpcoming() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Calendar.String() + " Upcoming executions"))
	sb.WriteString("\n")
	if len(d.overview.Upcoming) == 0 {
		sb.WriteString(styles.Subtitle.Render("Nothing scheduled"))
		sb.WriteString("\n")
		return sb.String()
	}
	for i, u := range d.overview.Upcoming {
		if i == maxUpcoming {
			break
		}
		when := "-"
		if u.ScheduledFor != nil {
			when = u.ScheduledFor.Local().Format("Jan 02 15:04")
		}
		sb.WriteString(fmt.Sprintf("%s  %s / %s\n", styles.KeyStyle.Render(when), u.ClientName, u.CampaignName))
	}
	return sb.String()
}
