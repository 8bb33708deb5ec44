// ABOUTME: Renders command results as tables, JSON or YAML
// ABOUTME: YAML keys follow the JSON field names of the API models

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v2"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// render writes v in the requested format. human is used for table output.
func render(w io.Writer, v any, human func() string) error {
	switch OutputFormat() {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case formatYAML:
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(data))
	case formatTable:
		fmt.Fprintln(w, human())
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", OutputFormat())
	}
	return nil
}

// toYAML goes through JSON so keys match the API field names.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return out, nil
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

// renderFields renders label/value pairs as a two-column table.
func renderFields(pairs ...[2]string) string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
