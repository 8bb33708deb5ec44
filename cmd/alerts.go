// ABOUTME: alerts command: alert configurations and fired alert history
// ABOUTME: Scope is a client id or "global"

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

var (
	alertsScope string
	newAlert    models.AlertConfiguration
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Work with alert configurations and history",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alert configurations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runAlertsList(ctx, os.Stdout, alertsScope))
	},
}

var alertsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List fired alerts",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runAlertsHistory(ctx, os.Stdout, alertsScope))
	},
}

var alertsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an alert configuration",
	Long: `Create an alert configuration for a client, or a global one with --client global.

Example:
  campaign-watch alerts create --client c-01 --name "Acme delays" --type email \
    --recipient ops@acme.test --condition ExecutionDelayed --severity Warning`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runAlertsCreate(ctx, os.Stdout, alertsScope, newAlert))
	},
}

var alertsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an alert configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runAlertsDelete(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd, alertsHistoryCmd, alertsCreateCmd, alertsDeleteCmd)
	alertsCmd.PersistentFlags().StringVar(&alertsScope, "client", models.GlobalScope, "Client id, or global")

	f := alertsCreateCmd.Flags()
	f.StringVar(&newAlert.Name, "name", "", "Alert name")
	f.StringVar(&newAlert.Type, "type", "email", "Delivery type: email or webhook")
	f.StringVar(&newAlert.Recipient, "recipient", "", "Email address or webhook URL")
	f.StringVar(&newAlert.ConditionType, "condition", "StepFailed", "Condition that fires the alert")
	f.StringVar(&newAlert.MinSeverity, "severity", "Error", "Minimum severity")
	f.BoolVar(&newAlert.IsActive, "active", true, "Whether the alert is active")
}

func runAlertsList(ctx context.Context, w io.Writer, scope string) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	alerts, err := rt.svc.Alerts.Configurations(ctx, scope)
	if err != nil {
		return fail(w, err)
	}

	err = render(w, alerts, func() string {
		rows := make([][]string, 0, len(alerts))
		for _, a := range alerts {
			rows = append(rows, []string{a.ID, alertScope(a.ClientID), a.Name, a.Type, a.ConditionType, a.MinSeverity, a.Recipient, yesNo(a.IsActive)})
		}
		return renderTable([]string{"ID", "SCOPE", "NAME", "TYPE", "CONDITION", "SEVERITY", "RECIPIENT", "ACTIVE"}, rows)
	})
	if err != nil {
		return fail(w, err)
	}
	return exitOK
}

func runAlertsHistory(ctx context.Context, w io.Writer, scope string) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	history, err := rt.svc.Alerts.History(ctx, scope)
	if err != nil {
		return fail(w, err)
	}

	err = render(w, history, func() string {
		rows := make([][]string, 0, len(history))
		for _, h := range history {
			rows = append(rows, []string{formatTime(h.DetectedAt), h.Severity, h.CampaignName, h.StepName, h.Message})
		}
		return renderTable([]string{"DETECTED", "SEVERITY", "CAMPAIGN", "STEP", "MESSAGE"}, rows)
	})
	if err != nil {
		return fail(w, err)
	}
	return exitOK
}

func runAlertsCreate(ctx context.Context, w io.Writer, scope string, in models.AlertConfiguration) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	in.ClientID = nil
	if scope != "" && scope != models.GlobalScope {
		in.ClientID = &scope
	}

	created, err := rt.svc.Alerts.Create(ctx, in)
	if err != nil {
		return fail(w, err)
	}
	err = render(w, created, func() string {
		return fmt.Sprintf("Created alert %s (%s)", created.ID, alertScope(created.ClientID))
	})
	if err != nil {
		return fail(w, err)
	}
	return exitOK
}

func runAlertsDelete(ctx context.Context, w io.Writer, id string) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	if err := rt.svc.Alerts.Delete(ctx, id); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Deleted alert %s\n", id)
	return exitOK
}

func alertScope(clientID *string) string {
	if clientID == nil {
		return models.GlobalScope
	}
	return *clientID
}
