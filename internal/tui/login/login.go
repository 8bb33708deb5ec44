// ABOUTME: Login screen as a bubbletea model
// ABOUTME: Wraps a huh form and emits SubmitMsg once both fields are valid

package login

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/rodriigosc/campaign-watch/internal/tui/icons"
	"github.com/rodriigosc/campaign-watch/internal/tui/styles"
)

// SubmitMsg carries the credentials the user entered
type SubmitMsg struct {
	Email    string
	Password string
}

// CancelledMsg is sent when the user leaves the login screen
type CancelledMsg struct{}

// Login collects credentials
type Login struct {
	form      *huh.Form
	email     string
	password  string
	err       string
	width     int
	submitted bool
}

// New builds the form. email pre-fills the address; errMsg is shown above
// the form, typically the reason the user landed here.
func New(email, errMsg string) *Login {
	l := &Login{email: email, err: errMsg}
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&l.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(validatePassword),
		).Title("Sign in").
			Description("Use your Campaign Watch account"),
	).WithTheme(createTheme()).
		WithShowHelp(false)
	return l
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(s, "@") {
		return errors.New("enter a valid email")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return errors.New("password is required")
	}
	return nil
}

// Error returns the message shown above the form
func (l *Login) Error() string {
	return l.err
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return l, func() tea.Msg { return CancelledMsg{} }
		}
		// typing again hides the previous failure
		l.err = ""
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	switch l.form.State {
	case huh.StateCompleted:
		if l.submitted {
			return l, nil
		}
		l.submitted = true
		submit := SubmitMsg{Email: strings.TrimSpace(l.email), Password: l.password}
		return l, func() tea.Msg { return submit }
	case huh.StateAborted:
		return l, func() tea.Msg { return CancelledMsg{} }
	}
	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.User.String() + " Campaign Watch"))
	sb.WriteString("\n")
	if l.err != "" {
		sb.WriteString(styles.StatusCritical.Render(l.err))
		sb.WriteString("\n\n")
	}
	sb.WriteString(l.form.View())
	return sb.String()
}
