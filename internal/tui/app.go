// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rodriigosc/campaign-watch/client"
	"github.com/rodriigosc/campaign-watch/internal/tui/clientlist"
	"github.com/rodriigosc/campaign-watch/internal/tui/dashboard"
	"github.com/rodriigosc/campaign-watch/internal/tui/icons"
	"github.com/rodriigosc/campaign-watch/internal/tui/login"
	"github.com/rodriigosc/campaign-watch/internal/tui/styles"
	"github.com/rodriigosc/campaign-watch/models"
	"github.com/rodriigosc/campaign-watch/services"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenClients
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
	clientPageSize   = 10
)

// overviewLoadedMsg is sent when the dashboard overview is fetched
type overviewLoadedMsg struct {
	overview *services.Overview
	err      error
}

// clientsLoadedMsg is sent when the client list is fetched
type clientsLoadedMsg struct {
	clients []models.Client
	err     error
}

// loginFinishedMsg carries the outcome of a login attempt
type loginFinishedMsg struct {
	email  string
	result services.LoginResult
}

// App is the root model for the TUI
type App struct {
	ctx        context.Context
	svc        *services.Services
	session    *services.SessionManager
	screen     Screen
	width      int
	height     int
	err        error
	loading    bool
	lastUpdate time.Time

	spinner   spinner.Model
	loginForm *login.Login
	dashboard *dashboard.Dashboard
	clients   *clientlist.ClientList
}

// New creates the app. It opens on the dashboard when the session is
// already authenticated, on the login screen otherwise.
func New(ctx context.Context, svc *services.Services, session *services.SessionManager) *App {
	a := &App{
		ctx:     ctx,
		svc:     svc,
		session: session,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
	}
	if session.State().IsAuthenticated {
		a.screen = ScreenDashboard
	} else {
		a.screen = ScreenLogin
		a.loginForm = login.New("", "")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.loginForm.Init()
	}
	return a.refresh()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(a.innerWidth(), a.contentHeight())
		}
		if a.clients != nil {
			a.clients.SetWidth(a.innerWidth())
		}
		if a.loginForm != nil {
			return a.updateLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenClients:
			return a.updateClients(msg)
		}

	case login.SubmitMsg:
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.doLogin(msg.Email, msg.Password))

	case login.CancelledMsg:
		return a, tea.Quit

	case loginFinishedMsg:
		a.loading = false
		if !msg.result.Success {
			return a, a.showLogin(msg.email, msg.result.Error)
		}
		a.loginForm = nil
		a.err = nil
		a.screen = ScreenDashboard
		return a, a.refresh()

	case overviewLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a, a.handleError(msg.err)
		}
		a.err = nil
		a.lastUpdate = time.Now()
		if a.dashboard == nil {
			a.dashboard = dashboard.New(msg.overview, a.innerWidth(), a.contentHeight())
		} else {
			a.dashboard.Update(msg.overview)
		}
		return a, nil

	case clientsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a, a.handleError(msg.err)
		}
		a.err = nil
		a.lastUpdate = time.Now()
		if a.clients == nil {
			a.clients = clientlist.New(msg.clients, clientPageSize)
			a.clients.SetWidth(a.innerWidth())
		} else {
			a.clients.SetClients(msg.clients)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	default:
		// huh needs its internal messages
		if a.screen == ScreenLogin && a.loginForm != nil {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginForm == nil || a.loading {
		return a, nil
	}
	model, cmd := a.loginForm.Update(msg)
	a.loginForm = model.(*login.Login)
	return a, cmd
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.refresh()
	case "c":
		a.screen = ScreenClients
		return a, a.refresh()
	case "l":
		return a, a.logout()
	}
	return a, nil
}

func (a *App) updateClients(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.clients != nil && a.clients.Filtering() {
		return a, a.clients.Update(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.refresh()
	case "d":
		a.screen = ScreenDashboard
		return a, a.refresh()
	case "l":
		return a, a.logout()
	}
	if a.clients != nil {
		return a, a.clients.Update(msg)
	}
	return a, nil
}

// handleError sends the user back to login when the session is gone and
// keeps everything else on screen.
func (a *App) handleError(err error) tea.Cmd {
	if errors.Is(err, client.ErrUnauthenticated) {
		return a.showLogin("", err.Error())
	}
	a.err = err
	return nil
}

func (a *App) showLogin(email, errMsg string) tea.Cmd {
	a.screen = ScreenLogin
	a.err = nil
	a.dashboard = nil
	a.clients = nil
	a.loginForm = login.New(email, errMsg)
	return a.loginForm.Init()
}

func (a *App) logout() tea.Cmd {
	a.session.Logout(a.ctx)
	return a.showLogin("", "")
}

// refresh reloads whatever the current screen shows
func (a *App) refresh() tea.Cmd {
	a.loading = true
	switch a.screen {
	case ScreenClients:
		return tea.Batch(a.spinner.Tick, a.loadClients())
	default:
		return tea.Batch(a.spinner.Tick, a.loadOverview())
	}
}

func (a *App) loadOverview() tea.Cmd {
	return func() tea.Msg {
		o, err := a.svc.Dashboard.Overview(a.ctx, "")
		return overviewLoadedMsg{overview: o, err: err}
	}
}

func (a *App) loadClients() tea.Cmd {
	return func() tea.Msg {
		clients, err := a.svc.Clients.List(a.ctx)
		return clientsLoadedMsg{clients: clients, err: err}
	}
}

func (a *App) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginFinishedMsg{email: email, result: a.session.Login(a.ctx, email, password)}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenClients:
		content = a.viewClients()
	default:
		content = a.viewDashboard()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.loading {
		return styles.Panel.Render(a.spinner.View() + " Signing in...")
	}
	if a.loginForm != nil {
		return styles.ActivePanel.Render(a.loginForm.View())
	}
	return ""
}

func (a *App) viewDashboard() string {
	if a.err != nil {
		return styles.StatusCritical.Render("Error: " + a.err.Error())
	}

	leftPane := ""
	if a.dashboard != nil {
		leftPane = styles.ActivePanel.Width(a.dashboardWidth()).Render(a.dashboard.View())
	} else {
		leftPane = styles.Panel.Width(a.dashboardWidth()).Render(a.spinner.View() + " Loading...")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, a.viewActions())
}

func (a *App) viewClients() string {
	if a.err != nil {
		return styles.StatusCritical.Render("Error: " + a.err.Error())
	}

	leftPane := ""
	if a.clients != nil {
		leftPane = styles.ActivePanel.Width(a.dashboardWidth()).Render(a.clients.View())
	} else {
		leftPane = styles.Panel.Width(a.dashboardWidth()).Render(a.spinner.View() + " Loading...")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, a.viewActions())
}

// viewActions lists what the keys do next to the main pane
func (a *App) viewActions() string {
	content := styles.Title.Render("Actions") + "\n"
	content += icons.Refresh.String() + " Refresh\n"
	if a.screen == ScreenClients {
		content += icons.Dashboard.String() + " Dashboard\n"
		content += icons.Filter.String() + " Filter\n"
	} else {
		content += icons.Clients.String() + " Clients\n"
	}
	content += icons.Logout.String() + " Log out\n"
	content += icons.Quit.String() + " Quit\n"

	if u := a.session.State().User; u != nil {
		content += "\n" + styles.Subtitle.Render(icons.User.String()+" "+u.Name+" ("+u.Role+")")
	}
	return styles.Panel.Width(a.actionsWidth()).Render(content)
}

// dashboardWidth calculates the width for the main pane
func (a *App) dashboardWidth() int {
	if a.width < minTerminalWidth {
		return max(a.width-panelPadding, 0)
	}
	return (a.width - panelPadding) * 2 / 3
}

// innerWidth is the main pane width less its border and padding
func (a *App) innerWidth() int {
	return max(a.dashboardWidth()-6, 0)
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	return max(a.width-a.dashboardWidth()-4, 0)
}

// contentHeight is the height left for the main pane: header, two
// separating newlines, four lines of panel border and padding, footer.
func (a *App) contentHeight() int {
	return max(a.height-8, 0)
}

// renderHeader creates the header bar with app branding and the user
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Campaign Watch"))

	rightText := ""
	if u := a.session.State().User; u != nil && a.screen != ScreenLogin {
		rightText = contextStyle.Render(u.Email) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenDashboard:
		shortcuts = []string{"r Refresh", "c Clients", "l Logout", "q Quit"}
	case ScreenClients:
		shortcuts = []string{"/ Filter", "n/p Page", "r Refresh", "d Dashboard", "l Logout", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin {
		elapsed := formatTimeSince(time.Since(a.lastUpdate))
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlainText) - lipgloss.Width(rightPlainText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯")
}

// formatTimeSince formats an elapsed duration in human-readable form
func formatTimeSince(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, svc *services.Services, session *services.SessionManager) error {
	app := New(ctx, svc, session)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
