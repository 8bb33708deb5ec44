// ABOUTME: Filterable, paginated client list for the TUI
// ABOUTME: Uses a bubbles text input for the filter and listview for paging

package clientlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rodriigosc/campaign-watch/internal/tui/icons"
	"github.com/rodriigosc/campaign-watch/internal/tui/styles"
	"github.com/rodriigosc/campaign-watch/internal/tui/widgets"
	"github.com/rodriigosc/campaign-watch/listview"
	"github.com/rodriigosc/campaign-watch/models"
)

// DefaultPageSize is used when New gets a size below one
const DefaultPageSize = 10

// ClientList shows one page of the filtered clients
type ClientList struct {
	all       []models.Client
	filter    textinput.Model
	filtering bool
	page      int
	pageSize  int
	width     int
}

// New creates a list starting on page 1
func New(clients []models.Client, pageSize int) *ClientList {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	ti := textinput.New()
	ti.Placeholder = "name, id or project"
	ti.Prompt = icons.Filter.String() + " "
	ti.CharLimit = 64
	ti.Width = 40

	return &ClientList{
		all:      clients,
		filter:   ti,
		page:     1,
		pageSize: pageSize,
	}
}

// SetClients replaces the data after a refresh, keeping the filter
func (l *ClientList) SetClients(clients []models.Client) {
	l.all = clients
	l.clampPage()
}

// SetWidth updates the render width
func (l *ClientList) SetWidth(width int) {
	l.width = width
}

// Filtering reports whether key presses go to the filter input
func (l *ClientList) Filtering() bool {
	return l.filtering
}

// Query returns the current filter text
func (l *ClientList) Query() string {
	return l.filter.Value()
}

// Current returns the visible page
func (l *ClientList) Current() listview.Page[models.Client] {
	return listview.Paginate(l.filtered(), l.page, l.pageSize)
}

func (l *ClientList) filtered() []models.Client {
	return listview.FilterByText(l.all, l.filter.Value(),
		func(c models.Client) string { return c.Name },
		func(c models.Client) string { return c.ID },
		models.Client.ProjectID,
	)
}

func (l *ClientList) clampPage() {
	p := listview.Paginate(l.filtered(), 1, l.pageSize)
	if l.page > p.TotalPages {
		l.page = p.TotalPages
	}
	if l.page < 1 {
		l.page = 1
	}
}

// Update handles filter editing ("/" to start, enter to keep, esc to
// clear) and paging with n/p.
func (l *ClientList) Update(msg tea.KeyMsg) tea.Cmd {
	if l.filtering {
		switch msg.String() {
		case "enter":
			l.filtering = false
			l.filter.Blur()
			return nil
		case "esc":
			l.filtering = false
			l.filter.Blur()
			l.filter.SetValue("")
			l.page = 1
			return nil
		}
		var cmd tea.Cmd
		l.filter, cmd = l.filter.Update(msg)
		l.page = 1
		return cmd
	}

	switch msg.String() {
	case "/":
		l.filtering = true
		return l.filter.Focus()
	case "n", "right":
		if l.page < l.Current().TotalPages {
			l.page++
		}
	case "p", "left":
		if l.page > 1 {
			l.page--
		}
	}
	return nil
}

// View renders the filter line, the page of clients and a page footer
func (l *ClientList) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Clients.String() + " Clients"))
	sb.WriteString("\n")

	if l.filtering || l.filter.Value() != "" {
		sb.WriteString(l.filter.View())
		sb.WriteString("\n\n")
	}

	page := l.Current()
	if page.TotalItems == 0 {
		sb.WriteString(styles.Subtitle.Render("No clients match"))
		sb.WriteString("\n")
		return lipgloss.NewStyle().Width(l.width).Render(sb.String())
	}

	for _, c := range page.Items {
		status := widgets.StatusText("active", widgets.StatusOK)
		if !c.IsActive {
			status = widgets.StatusText("inactive", widgets.StatusNeutral)
		}
		project := c.ProjectID()
		if project == "" {
			project = "-"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-8s %-14s %s\n", c.Name, c.ID, project, status))
	}

	sb.WriteString(styles.Help.Render(fmt.Sprintf("Page %d of %d (%d clients)", page.PageIndex, page.TotalPages, page.TotalItems)))
	return lipgloss.NewStyle().Width(l.width).Render(sb.String())
}
