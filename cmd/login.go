// ABOUTME: login, logout and whoami commands
// ABOUTME: Prompts for missing credentials with a huh form

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/models"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Campaign Watch API",
	Long:  `Log in and keep the session in the configured token store. Prompts for anything not given as a flag.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		email, password := loginEmail, loginPassword
		if email == "" || password == "" {
			var err error
			email, password, err = promptCredentials(email, password)
			if err != nil {
				exit(fail(os.Stdout, err))
				return
			}
		}
		exit(runLogin(ctx, os.Stdout, email, password))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runLogout(ctx, os.Stdout))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runWhoami(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
}

// promptCredentials asks for whatever is missing.
func promptCredentials(email, password string) (string, string, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email).
				Validate(required("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(required("password")),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", "", errors.New("login cancelled")
		}
		return "", "", err
	}
	return email, password, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	res := rt.session.Login(ctx, email, password)
	if !res.Success {
		fmt.Fprintf(w, "Error: %s\n", res.Error)
		if code := exitCode(res.Err); code == exitUnreachable {
			return code
		}
		return exitError
	}

	u := rt.session.State().User
	fmt.Fprintf(w, "Logged in as %s (%s)\n", u.Name, u.Role)
	return exitOK
}

func runLogout(ctx context.Context, w io.Writer) int {
	rt, err := openRuntime(ctx, io.Discard)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	rt.session.Logout(ctx)
	fmt.Fprintln(w, "Logged out")
	return exitOK
}

func runWhoami(ctx context.Context, w io.Writer) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}
	u := rt.session.State().User
	if err := render(w, u, func() string { return formatUser(u) }); err != nil {
		return fail(w, err)
	}
	return exitOK
}

func formatUser(u *models.User) string {
	return renderFields(
		[2]string{"Name", u.Name},
		[2]string{"Email", u.Email},
		[2]string{"Role", u.Role},
		[2]string{"Admin", yesNo(u.IsAdmin())},
	)
}
