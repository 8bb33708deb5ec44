package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rodriigosc/campaign-watch/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show settings of the logged-in user",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show all settings sections",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		exit(runSettingsGet(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
}

func runSettingsGet(ctx context.Context, w io.Writer) int {
	rt, err := openRuntime(ctx, errOut)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if !rt.requireSession(w) {
		return exitSession
	}

	st, err := rt.svc.Settings.Get(ctx)
	if err != nil {
		return fail(w, err)
	}
	if err := render(w, st, func() string { return formatSettings(st) }); err != nil {
		return fail(w, err)
	}
	return exitOK
}

func formatSettings(st *models.Settings) string {
	rows := [][]string{
		{"profile", "name", st.Profile.Name},
		{"profile", "email", st.Profile.Email},
		{"profile", "phone", st.Profile.Phone},
	}
	rows = append(rows, sectionRows("system", st.System)...)
	rows = append(rows, sectionRows("general", st.General)...)
	return renderTable([]string{"SECTION", "KEY", "VALUE"}, rows)
}

func sectionRows(section string, values map[string]any) [][]string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{section, k, fmt.Sprint(values[k])})
	}
	return rows
}
