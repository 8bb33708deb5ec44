// ABOUTME: campaigns command: lists campaigns and shows details and executions
// ABOUTME: Client and status filters match exactly; --filter matches text

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/listview"
	"github.com/rodriigosc/campaign-watch/models"
	"github.com/rodriigosc/campaign-watch/services"
)

type campaignListOptions struct {
	client   string
	status   string
	filter   string
	page     int
	pageSize int
}

var campaignOpts campaignListOptions

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Work with monitored campaigns",
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runCampaignsList(ctx, os.Stdout, campaignOpts))
	},
}

var campaignsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a campaign with its metrics and diagnostic",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runCampaignsGet(ctx, os.Stdout, args[0]))
	},
}

var campaignsExecutionsCmd = &cobra.Command{
	Use:   "executions ID",
	Short: "List executions of a campaign",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runCampaignsExecutions(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(campaignsCmd)
	campaignsCmd.AddCommand(campaignsListCmd, campaignsGetCmd, campaignsExecutionsCmd)

	f := campaignsListCmd.Flags()
	f.StringVar(&campaignOpts.client, "client", "", "Only campaigns of this client name")
	f.StringVar(&campaignOpts.status, "status", "", "Only campaigns with this monitoring status")
	f.StringVar(&campaignOpts.filter, "filter", "", "Text to match against campaign name or id")
	f.IntVar(&campaignOpts.page, "page", 1, "Page number, starting at 1")
	f.IntVar(&campaignOpts.pageSize, "page-size", defaultPageSize, "Campaigns per page")
}

func runCampaignsList(ctx context.Context, w io.Writer, opts campaignListOptions) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	campaigns, err := rt.svc.Campaigns.List(ctx, services.CampaignFilter{})
	if err != nil {
		return fail(w, err)
	}

	byClient := listview.MatchField(opts.client, func(c models.Campaign) string { return c.ClientName })
	byStatus := listview.MatchField(opts.status, func(c models.Campaign) string { return c.MonitoringStatus })
	matches := listview.FilterBy(campaigns, func(c models.Campaign) bool {
		return byClient(c) && byStatus(c)
	})
	matches = listview.FilterByText(matches, opts.filter,
		func(c models.Campaign) string { return c.Name },
		func(c models.Campaign) string { return c.IDCampanha },
	)
	p := listview.Paginate(matches, opts.page, opts.pageSize)

	err = render(w, p.Items, func() string {
		rows := make([][]string, 0, len(p.Items))
		for _, c := range p.Items {
			rows = append(rows, []string{c.ID, c.ClientName, c.Name, c.MonitoringStatus, c.HealthStatus, formatTime(c.NextExecutionDate)})
		}
		return renderTable([]string{"ID", "CLIENT", "NAME", "STATUS", "HEALTH", "NEXT RUN"}, rows) +
			fmt.Sprintf("\nPage %d of %d (%d campaigns)", p.PageIndex, p.TotalPages, p.TotalItems)
	})
	if err != nil {
		return fail(w, err)
	}
	return exitOK
}

// campaignDetail is what `campaigns get` prints.
type campaignDetail struct {
	Campaign   *models.Campaign           `json:"campaign"`
	Metrics    *models.CampaignMetrics    `json:"metrics"`
	Diagnostic *models.CampaignDiagnostic `json:"diagnostic"`
}

func runCampaignsGet(ctx context.Context, w io.Writer, id string) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	var d campaignDetail
	if d.Campaign, err = rt.svc.Campaigns.Get(ctx, id); err != nil {
		return fail(w, err)
	}
	if d.Metrics, err = rt.svc.Campaigns.Metrics(ctx, id); err != nil {
		return fail(w, err)
	}
	if d.Diagnostic, err = rt.svc.Campaigns.Diagnostic(ctx, id); err != nil {
		return fail(w, err)
	}

	if err := render(w, d, func() string { return formatCampaignDetail(d) }); err != nil {
		return fail(w, err)
	}
	return exitOK
}

func formatCampaignDetail(d campaignDetail) string {
	c, m := d.Campaign, d.Metrics
	out := renderFields(
		[2]string{"Campaign", fmt.Sprintf("%s (%s)", c.Name, c.ID)},
		[2]string{"Client", c.ClientName},
		[2]string{"Original ID", c.IDCampanha},
		[2]string{"Status", c.MonitoringStatus},
		[2]string{"Health", d.Diagnostic.OverallHealth},
		[2]string{"Next run", formatTime(c.NextExecutionDate)},
		[2]string{"Executions", fmt.Sprintf("%d (%d ok, %d failed)", m.TotalExecutions, m.SuccessfulExecutions, m.FailedExecutions)},
		[2]string{"Success rate", fmt.Sprintf("%.1f%%", m.SuccessRate)},
	)
	if len(d.Diagnostic.MainIssues) > 0 {
		out += "\nIssues:\n  " + strings.Join(d.Diagnostic.MainIssues, "\n  ")
	}
	return out
}

func runCampaignsExecutions(ctx context.Context, w io.Writer, id string) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	execs, err := rt.svc.Campaigns.Executions(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	err = render(w, execs, func() string {
		rows := make([][]string, 0, len(execs))
		for _, e := range execs {
			problem := ""
			for _, s := range e.Steps {
				if s.Error != "" {
					problem = s.Name + ": " + s.Error
					break
				}
			}
			rows = append(rows, []string{e.ExecutionID, e.Status, formatTime(e.StartDate), formatTime(e.EndDate), problem})
		}
		return renderTable([]string{"EXECUTION", "STATUS", "STARTED", "ENDED", "PROBLEM"}, rows)
	})
	if err != nil {
		return fail(w, err)
	}
	return exitOK
}
