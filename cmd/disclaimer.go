package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var disclaimerCmd = &cobra.Command{
	Use:   "disclaimer",
	Short: "Show or accept the data disclaimer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stdout, disclaimerText)
	},
}

var disclaimerAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept the disclaimer so it is no longer shown",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runDisclaimerAccept(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(disclaimerCmd)
	disclaimerCmd.AddCommand(disclaimerAcceptCmd)
}

func runDisclaimerAccept(ctx context.Context, w io.Writer) int {
	rt, err := openRuntime(ctx, io.Discard)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if err := rt.tokens.AcceptDisclaimer(ctx); err != nil {
		return fail(w, err)
	}
	fmt.Fprintln(w, "Disclaimer accepted")
	return exitOK
}
