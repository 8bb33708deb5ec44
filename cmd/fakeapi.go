// ABOUTME: fake-api command: serves the in-memory API for demos and manual testing
// ABOUTME: Seeded with demo clients, campaigns and two accounts

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/fake"
)

var fakeAddr string

var fakeAPICmd = &cobra.Command{
	Use:   "fake-api",
	Short: "Run an in-memory Campaign Watch API",
	Long: fmt.Sprintf(`Run an in-memory Campaign Watch API seeded with demo data.

Accounts:
  %s / %s (Admin)
  %s / %s (Viewer)

Example:
  campaign-watch fake-api --addr 127.0.0.1:5080 &
  campaign-watch --api-url http://127.0.0.1:5080/api login --email %s --password %s`,
		fake.AdminEmail, fake.AdminPassword, fake.ViewerEmail, fake.ViewerPassword,
		fake.AdminEmail, fake.AdminPassword),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		ln, err := net.Listen("tcp", fakeAddr)
		if err != nil {
			exit(fail(os.Stdout, err))
			return
		}
		exit(runFakeAPI(ctx, os.Stdout, ln))
	},
}

func init() {
	rootCmd.AddCommand(fakeAPICmd)
	fakeAPICmd.Flags().StringVar(&fakeAddr, "addr", "127.0.0.1:5080", "Listen address")
}

// runFakeAPI serves until ctx is cancelled.
func runFakeAPI(ctx context.Context, w io.Writer, ln net.Listener) int {
	srv := &http.Server{
		Handler:           fake.New(fake.WithLogger(slog.Default())),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Fprintf(w, "Fake API listening on %s\n", fake.BaseURL("http://"+ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail(w, err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fail(w, err)
		}
	}
	return exitOK
}
