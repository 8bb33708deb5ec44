// ABOUTME: users command: user management for administrators
// ABOUTME: Refuses non-admin sessions before calling the API

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/models"
)

var newUser models.UserInput

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage dashboard users (admin only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runUsersList(ctx, os.Stdout))
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runUsersCreate(ctx, os.Stdout, newUser))
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runUsersDelete(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersDeleteCmd)

	f := usersCreateCmd.Flags()
	f.StringVar(&newUser.Name, "name", "", "Full name")
	f.StringVar(&newUser.Email, "email", "", "Email, used to log in")
	f.StringVar(&newUser.Password, "password", "", "Initial password (at least 6 characters)")
	f.StringVar(&newUser.Role, "role", "Viewer", "Role: Admin or Viewer")
	f.StringVar(&newUser.Phone, "phone", "", "Phone number")
}

// openAdmin opens a runtime and checks the session belongs to an admin.
func openAdmin(ctx context.Context, w io.Writer) (*runtime, int) {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return nil, fail(w, err)
	}
	if !rt.requireSession(w) {
		rt.Close()
		return nil, exitSession
	}
	if !rt.session.IsAdmin() {
		rt.Close()
		fmt.Fprintln(w, "Error: only administrators can manage users")
		return nil, exitError
	}
	return rt, exitOK
}

func runUsersList(ctx context.Context, w io.Writer) int {
	rt, code := openAdmin(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	users, err := rt.svc.Users.List(ctx)
	if err != nil {
		return fail(w, err)
	}

	err = render(w, users, func() string {
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, []string{u.ID, u.Name, u.Email, u.Role, yesNo(u.IsActive)})
		}
		return renderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE"}, rows)
	})
	if err != nil {
		return fail(w, err)
	}
	return exitOK
}

func runUsersCreate(ctx context.Context, w io.Writer, in models.UserInput) int {
	rt, code := openAdmin(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	created, err := rt.svc.Users.Create(ctx, in)
	if err != nil {
		return fail(w, err)
	}
	err = render(w, created, func() string {
		return fmt.Sprintf("Created user %s (%s)", created.Email, created.ID)
	})
	if err != nil {
		return fail(w, err)
	}
	return exitOK
}

func runUsersDelete(ctx context.Context, w io.Writer, id string) int {
	rt, code := openAdmin(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if err := rt.svc.Users.Delete(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted user %s\n", id)
	return exitOK
}
