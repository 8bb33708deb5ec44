// ABOUTME: clients command: lists monitored clients
// ABOUTME: Filters and paginates locally over the full client list

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/listview"
	"github.com/rodriigosc/campaign-watch/models"
)

const defaultPageSize = 20

var (
	clientsFilter   string
	clientsPage     int
	clientsPageSize int
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Work with monitored clients",
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	Long: `List monitored clients. --filter matches name, id or project id, ignoring case.

Example:
  campaign-watch clients list --filter banco --page 1 --page-size 10`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runClientsList(ctx, os.Stdout, clientsFilter, clientsPage, clientsPageSize))
	},
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsListCmd)
	clientsListCmd.Flags().StringVar(&clientsFilter, "filter", "", "Text to match against name, id or project id")
	clientsListCmd.Flags().IntVar(&clientsPage, "page", 1, "Page number, starting at 1")
	clientsListCmd.Flags().IntVar(&clientsPageSize, "page-size", defaultPageSize, "Clients per page")
}

func runClientsList(ctx context.Context, w io.Writer, filter string, page, pageSize int) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	clients, err := rt.svc.Clients.List(ctx)
	if err != nil {
		return fail(w, err)
	}

	matches := listview.FilterByText(clients, filter,
		func(c models.Client) string { return c.Name },
		func(c models.Client) string { return c.ID },
		models.Client.ProjectID,
	)
	p := listview.Paginate(matches, page, pageSize)

	if err := render(w, p.Items, func() string { return formatClients(p) }); err != nil {
		return fail(w, err)
	}
	return exitOK
}

func formatClients(p listview.Page[models.Client]) string {
	rows := make([][]string, 0, len(p.Items))
	for _, c := range p.Items {
		rows = append(rows, []string{c.ID, c.Name, c.ProjectID(), yesNo(c.IsActive)})
	}
	return renderTable([]string{"ID", "NAME", "PROJECT", "ACTIVE"}, rows) +
		fmt.Sprintf("\nPage %d of %d (%d clients)", p.PageIndex, p.TotalPages, p.TotalItems)
}
