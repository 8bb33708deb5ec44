// ABOUTME: dashboard command: monitoring overview and the interactive TUI
// ABOUTME: The TUI optionally exposes prometheus metrics while it runs

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/internal/tui"
	"github.com/rodriigosc/campaign-watch/services"
)

var dashboardClient string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the monitoring dashboard",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runDashboard(ctx, os.Stdout, dashboardClient))
	},
}

var dashboardTUICmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Long: `Open the interactive dashboard.

Keys: r refresh, c clients, d dashboard, / filter, n/p page, l logout, q quit.
Set CAMPAIGN_WATCH_METRICS_ADDR (e.g. :9090) to serve /metrics while it runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		rt, err := openRuntime(ctx, io.Discard)
		if err != nil {
			return err
		}
		defer rt.Close()

		if addr := rt.cfg.MetricsAddr; addr != "" {
			stop := serveMetrics(addr, rt.metrics.Handler())
			defer stop()
		}
		return tui.Run(ctx, rt.svc, rt.session)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.AddCommand(dashboardTUICmd)
	dashboardCmd.Flags().StringVar(&dashboardClient, "client", "", "Only campaigns of this client name")
}

func runDashboard(ctx context.Context, w io.Writer, clientName string) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	o, err := rt.svc.Dashboard.Overview(ctx, clientName)
	if err != nil {
		return fail(w, err)
	}
	if err := render(w, o, func() string { return formatOverview(o) }); err != nil {
		return fail(w, err)
	}
	return exitOK
}

func formatOverview(o *services.Overview) string {
	var sb strings.Builder
	s := o.Data.Summary

	sb.WriteString(renderFields(
		[2]string{"Campaigns", fmt.Sprintf("%d (%d active)", s.TotalCampaigns, s.ActiveCampaigns)},
		[2]string{"With issues", fmt.Sprintf("%d", s.CampaignsWithIssues)},
		[2]string{"Executions today", fmt.Sprintf("%d (%d ok)", s.TotalExecutionsToday, s.SuccessfulExecutionsToday)},
		[2]string{"Health score", fmt.Sprintf("%.0f", s.OverallHealthScore)},
	))

	if len(o.ByStatus) > 0 {
		parts := make([]string, 0, len(o.ByStatus))
		for _, st := range o.ByStatus {
			parts = append(parts, fmt.Sprintf("%s %d", st.Status, st.Count))
		}
		sb.WriteString("\nBy status: " + strings.Join(parts, ", "))
	}

	if len(o.SuccessRate) > 0 {
		keys := make([]string, 0, len(o.SuccessRate))
		for k := range o.SuccessRate {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s %.1f%%", k, o.SuccessRate[k]))
		}
		sb.WriteString("\nSuccess rate: " + strings.Join(parts, ", "))
	}

	if len(o.Issues) > 0 {
		rows := make([][]string, 0, len(o.Issues))
		for _, is := range o.Issues {
			rows = append(rows, []string{is.Severity, is.ClientName, is.CampaignName, is.Description})
		}
		sb.WriteString("\n\nRecent issues\n")
		sb.WriteString(renderTable([]string{"SEVERITY", "CLIENT", "CAMPAIGN", "DESCRIPTION"}, rows))
	}

	if len(o.Upcoming) > 0 {
		rows := make([][]string, 0, len(o.Upcoming))
		for _, u := range o.Upcoming {
			rows = append(rows, []string{formatTime(u.ScheduledFor), u.ClientName, u.CampaignName})
		}
		sb.WriteString("\n\nUpcoming executions\n")
		sb.WriteString(renderTable([]string{"WHEN", "CLIENT", "CAMPAIGN"}, rows))
	}
	return sb.String()
}

// serveMetrics exposes handler on addr/metrics until the returned stop is called.
func serveMetrics(addr string, handler http.Handler) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()
	slog.Info("Serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
