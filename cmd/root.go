// ABOUTME: Root command for the campaign-watch CLI
// ABOUTME: Handles global flags, output format and exit codes

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/client"
)

var (
	apiURL       string
	outputFormat string
	jsonOutput   bool

	// errOut receives the disclaimer and other notices kept off stdout
	errOut io.Writer = os.Stderr
)

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitUnreachable = 2
	exitSession     = 3
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "campaign-watch",
	Short: "CLI for the Campaign Watch monitoring API",
	Long: `campaign-watch is a command-line client for the Campaign Watch monitoring API.

It lists clients, campaigns, executions and alerts, and shows the monitoring dashboard.

Exit codes:
  0 - Success
  1 - Usage or API error
  2 - API unreachable (timeout or network error)
  3 - Not logged in or session expired

Environment Variables:
  CAMPAIGN_WATCH_API_URL      API base URL (default: https://localhost:5001/api)
  CAMPAIGN_WATCH_TOKEN_STORE  Where the session is kept: file, redis, memory (default: file)
  CAMPAIGN_WATCH_ENV          Set to development to log every request`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides CAMPAIGN_WATCH_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable, "Output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Shorthand for --output json")
}

// OutputFormat returns the requested output format; --json wins over --output.
func OutputFormat() string {
	if jsonOutput {
		return formatJSON
	}
	return strings.ToLower(outputFormat)
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, client.ErrUnauthenticated):
		return exitSession
	case client.IsTransient(err):
		return exitUnreachable
	default:
		return exitError
	}
}

// fail prints err the way every command does and returns its exit code.
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitCode(err)
}

// exit terminates the process for non-zero codes.
func exit(code int) {
	if code != exitOK {
		os.Exit(code)
	}
}
