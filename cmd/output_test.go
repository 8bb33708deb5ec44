package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/rodriigosc/campaign-watch/models"
)

func TestRender_Formats(t *testing.T) {
	user := &models.User{ID: "u-1", Name: "Ana Admin", Email: "ana@example.com", Role: models.RoleAdmin}
	defer func() {
		outputFormat = formatTable
		jsonOutput = false
	}()

	outputFormat = formatJSON
	var buf bytes.Buffer
	if err := render(&buf, user, func() string { return "human" }); err != nil {
		t.Fatalf("render json: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["email"] != "ana@example.com" {
		t.Errorf("expected email in JSON, got %v", parsed["email"])
	}

	outputFormat = formatYAML
	buf.Reset()
	if err := render(&buf, user, func() string { return "human" }); err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if doc["role"] != models.RoleAdmin {
		t.Errorf("expected role in YAML using JSON field names, got %v", doc)
	}

	outputFormat = formatTable
	buf.Reset()
	if err := render(&buf, user, func() string { return "human" }); err != nil {
		t.Fatalf("render table: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "human" {
		t.Errorf("expected human output, got %q", buf.String())
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	outputFormat = "xml"
	defer func() { outputFormat = formatTable }()

	var buf bytes.Buffer
	if err := render(&buf, nil, func() string { return "" }); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "NAME"}, [][]string{{"c-01", "Acme Retail"}})
	for _, expected := range []string{"ID", "NAME", "c-01", "Acme Retail"} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected table to contain %q:\n%s", expected, out)
		}
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Error("unexpected yesNo output")
	}
}

func TestFormatTime_Nil(t *testing.T) {
	if got := formatTime(nil); got != "-" {
		t.Errorf("expected '-', got %q", got)
	}
}
