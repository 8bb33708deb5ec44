package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rodriigosc/campaign-watch/client"
	"github.com/rodriigosc/campaign-watch/fake"
	"github.com/rodriigosc/campaign-watch/listview"
	"github.com/rodriigosc/campaign-watch/models"
)

func TestClients_ListAndFilter(t *testing.T) {
	e := newEnv(t).admin(t)

	clients, err := e.svc.Clients.List(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(clients) != len(fake.ClientNames) {
		t.Fatalf("Expected %d clients, got %d", len(fake.ClientNames), len(clients))
	}

	banks := listview.FilterByText(clients, "banco", func(c models.Client) string { return c.Name })
	want := []string{"Banco Alfa", "Banco Beta", "Banco Gama"}
	if len(banks) != len(want) {
		t.Fatalf("Expected %d matches, got %d", len(want), len(banks))
	}
	for i, name := range want {
		if banks[i].Name != name {
			t.Errorf("Expected %s at %d, got %s", name, i, banks[i].Name)
		}
	}
}

func TestClients_MutationsInvalidateCache(t *testing.T) {
	e := newEnv(t).admin(t)
	ctx := context.Background()

	if _, err := e.svc.Clients.List(ctx); err != nil {
		t.Fatal(err)
	}
	created, err := e.svc.Clients.Create(ctx, models.Client{Name: "Nova Loja", IsActive: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.ID == "" {
		t.Error("Expected server-assigned id")
	}

	clients, err := e.svc.Clients.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != len(fake.ClientNames)+1 {
		t.Errorf("Expected new client in list, got %d clients", len(clients))
	}
	if hits := e.fake.Hits("GET", "/Client"); hits != 2 {
		t.Errorf("Expected list to be refetched after create, got %d hits", hits)
	}

	if err := e.svc.Clients.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := e.svc.Clients.Get(ctx, created.ID); err == nil || err.Error() != "Client not found" {
		t.Errorf("Expected 'Client not found', got %v", err)
	}
}

func TestClients_CreateValidation(t *testing.T) {
	e := newEnv(t).admin(t)

	_, err := e.svc.Clients.Create(context.Background(), models.Client{})
	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *client.Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Message, "The Name field is required.") {
		t.Errorf("Expected field message, got %q", apiErr.Message)
	}
}

func TestCampaigns_Reads(t *testing.T) {
	e := newEnv(t).admin(t)
	ctx := context.Background()

	acme, err := e.svc.Campaigns.List(ctx, CampaignFilter{ClientName: "Acme Retail"})
	if err != nil {
		t.Fatal(err)
	}
	if len(acme) != 2 {
		t.Errorf("Expected 2 Acme campaigns, got %d", len(acme))
	}

	c, err := e.svc.Campaigns.GetByOriginalID(ctx, "Banco Beta", "301")
	if err != nil {
		t.Fatalf("Expected campaign by original id, got %v", err)
	}
	if c.ID != "m-4" {
		t.Errorf("Expected m-4, got %s", c.ID)
	}

	delayed, err := e.svc.Campaigns.Delayed(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(delayed) != 2 {
		t.Errorf("Expected 2 delayed campaigns, got %d", len(delayed))
	}

	execs, err := e.svc.Campaigns.Executions(ctx, "m-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(execs) != 1 || execs[0].ID != "e-2" {
		t.Errorf("Expected execution e-2, got %+v", execs)
	}

	exec, err := e.svc.Campaigns.Execution(ctx, "x-1003")
	if err != nil {
		t.Fatal(err)
	}
	if exec.CampaignID != "m-4" {
		t.Errorf("Expected execution of m-4, got %s", exec.CampaignID)
	}

	failed, err := e.svc.Campaigns.ExecutionsWithErrors(ctx, ExecutionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 2 {
		t.Errorf("Expected 2 executions with errors, got %d", len(failed))
	}

	if _, err := e.svc.Campaigns.Metrics(ctx, "m-2"); err != nil {
		t.Errorf("Expected metrics, got %v", err)
	}
	if _, err := e.svc.Campaigns.Diagnostic(ctx, "m-2"); err != nil {
		t.Errorf("Expected diagnostic, got %v", err)
	}
}

func TestCampaigns_PathEscaping(t *testing.T) {
	api := &recordingAPI{}
	svc := NewCampaignService(api)

	if _, err := svc.GetByOriginalID(context.Background(), "Acme Retail", "a/b"); err != nil {
		t.Fatal(err)
	}
	if got := api.last(t).path; got != "/CampaignMonitoring/original/Acme%20Retail/a%2Fb" {
		t.Errorf("Expected escaped path, got %s", got)
	}
}

func TestAlerts_EmptyScopeSkipsAPI(t *testing.T) {
	api := &recordingAPI{}
	svc := NewAlertService(api)

	alerts, err := svc.Configurations(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if alerts == nil || len(alerts) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", alerts)
	}
	history, err := svc.History(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if history == nil || len(history) != 0 {
		t.Errorf("Expected empty non-nil history, got %#v", history)
	}
	if len(api.calls) != 0 {
		t.Errorf("Expected no API calls, got %d", len(api.calls))
	}
}

func TestAlerts_Scopes(t *testing.T) {
	e := newEnv(t).admin(t)
	ctx := context.Background()

	global, err := e.svc.Alerts.Configurations(ctx, models.GlobalScope)
	if err != nil {
		t.Fatal(err)
	}
	if len(global) != 2 {
		t.Errorf("Expected 2 global alerts, got %d", len(global))
	}
	for _, a := range global {
		if !a.IsGlobal() {
			t.Errorf("Expected global alert, got client %v", *a.ClientID)
		}
	}

	history, err := e.svc.Alerts.History(ctx, "c-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].ID != "h-c1-1" {
		t.Errorf("Expected c-01 history, got %+v", history)
	}
}

func TestAlerts_CreateThenList(t *testing.T) {
	e := newEnv(t).admin(t)
	ctx := context.Background()
	clientID := "c-01"

	before, err := e.svc.Alerts.Configurations(ctx, clientID)
	if err != nil {
		t.Fatal(err)
	}

	created, err := e.svc.Alerts.Create(ctx, models.AlertConfiguration{
		ClientID:  &clientID,
		Name:      "Acme: delays",
		Type:      "email",
		Recipient: "ops@acme.test",
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	after, err := e.svc.Alerts.Configurations(ctx, clientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("Expected %d alerts, got %d", len(before)+1, len(after))
	}
	found := false
	for _, a := range after {
		if a.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected created alert %s in list", created.ID)
	}

	created.Name = "Acme: delays (renamed)"
	if err := e.svc.Alerts.Update(ctx, created.ID, *created); err != nil {
		t.Errorf("Expected update to succeed, got %v", err)
	}
	if err := e.svc.Alerts.Delete(ctx, created.ID); err != nil {
		t.Errorf("Expected delete to succeed, got %v", err)
	}
}

func TestMutations_ClearCache(t *testing.T) {
	api := &recordingAPI{}
	s := New(api, nil)
	ctx := context.Background()

	s.Clients.Update(ctx, "c-01", models.Client{Name: "x"})
	s.Users.Delete(ctx, "u-1")
	s.Alerts.Delete(ctx, "a-1")
	s.Settings.Save(ctx, SectionGeneral, map[string]any{"language": "en"})

	if api.clears != 4 {
		t.Errorf("Expected 4 cache clears, got %d", api.clears)
	}

	api.err = errors.New("boom")
	s.Clients.Delete(ctx, "c-01")
	if api.clears != 4 {
		t.Error("Expected failed mutation to keep the cache")
	}
}

func TestUsers_AdminOnly(t *testing.T) {
	e := newEnv(t)
	e.loginAs(t, fake.ViewerEmail, fake.ViewerPassword)

	_, err := e.svc.Users.List(context.Background())
	var apiErr *client.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("Expected 403, got %v", err)
	}
	if tok, _ := e.tokens.Token(context.Background()); tok == "" {
		t.Error("Expected 403 to keep the session")
	}
}

func TestUsers_CRUD(t *testing.T) {
	e := newEnv(t).admin(t)
	ctx := context.Background()

	created, err := e.svc.Users.Create(ctx, models.UserInput{Name: "Olga Ops", Email: "olga@campaign.watch", Password: "secret1"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	users, err := e.svc.Users.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 {
		t.Errorf("Expected 3 users, got %d", len(users))
	}

	_, err = e.svc.Users.Create(ctx, models.UserInput{Name: "Dup", Email: "olga@campaign.watch", Password: "secret1"})
	if err == nil || err.Error() != "Email already registered" {
		t.Errorf("Expected conflict message, got %v", err)
	}

	if err := e.svc.Users.Delete(ctx, created.ID); err != nil {
		t.Errorf("Expected delete to succeed, got %v", err)
	}
}

func TestDashboard_UpcomingDefaultsTo24Hours(t *testing.T) {
	api := &recordingAPI{}
	svc := NewDashboardService(api)

	if _, err := svc.Upcoming(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if got := api.last(t).params.Get("proximasHoras"); got != "24" {
		t.Errorf("Expected proximasHoras=24, got %q", got)
	}

	if _, err := svc.RecentIssues(context.Background(), IssueFilter{Severity: "Critical", Limit: 5}); err != nil {
		t.Fatal(err)
	}
	params := api.last(t).params
	if params.Get("severity") != "Critical" || params.Get("limite") != "5" || params.Has("desde") {
		t.Errorf("Unexpected issue params %v", params)
	}
}

func TestDashboard_Overview(t *testing.T) {
	e := newEnv(t).admin(t)

	o, err := e.svc.Dashboard.Overview(context.Background(), "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if o.Data == nil {
		t.Fatal("Expected dashboard data")
	}
	if len(o.Issues) != 3 {
		t.Errorf("Expected 3 issues, got %d", len(o.Issues))
	}
	if len(o.ByStatus) == 0 || len(o.ByHealth) == 0 {
		t.Error("Expected stats breakdowns")
	}
	if o.SuccessRate == nil {
		t.Error("Expected success rate map")
	}
}

func TestDashboard_StallRetriedUntilSuccess(t *testing.T) {
	e := newEnv(t).admin(t)
	e.fake.StallNext("/MonitoringDashboard", 2)

	d, err := e.svc.Dashboard.Data(context.Background(), "")
	if err != nil {
		t.Fatalf("Expected third attempt to succeed, got %v", err)
	}
	if d == nil {
		t.Fatal("Expected dashboard data")
	}
	if hits := e.fake.Hits("GET", "/MonitoringDashboard"); hits != 3 {
		t.Errorf("Expected 3 attempts, got %d", hits)
	}
}

func TestDashboard_OverviewFailsFast(t *testing.T) {
	api := &recordingAPI{err: errors.New("down")}
	_, err := NewDashboardService(api).Overview(context.Background(), "")
	if err == nil || err.Error() != "down" {
		t.Errorf("Expected first error, got %v", err)
	}
}

func TestSettings_ProfileSendsOnlyContactFields(t *testing.T) {
	api := &recordingAPI{}
	svc := NewSettingsService(api)

	err := svc.Save(context.Background(), SectionProfile, map[string]any{
		"name":     "Ana",
		"email":    "ana@example.com",
		"phone":    "+55 11 99999-0000",
		"role":     "Admin",
		"password": "x",
	})
	if err != nil {
		t.Fatal(err)
	}

	call := api.last(t)
	if call.method != http.MethodPut || call.path != "/User/settings/profile" {
		t.Errorf("Unexpected call %s %s", call.method, call.path)
	}
	want := models.ProfileSettings{Name: "Ana", Email: "ana@example.com", Phone: "+55 11 99999-0000"}
	if got, ok := call.body.(models.ProfileSettings); !ok || got != want {
		t.Errorf("Expected %+v, got %#v", want, call.body)
	}
}

func TestSettings_Sections(t *testing.T) {
	api := &recordingAPI{}
	svc := NewSettingsService(api)
	ctx := context.Background()

	if err := svc.Save(ctx, SectionSecurity, nil); !errors.Is(err, ErrUnsupportedSection) {
		t.Errorf("Expected ErrUnsupportedSection, got %v", err)
	}
	if err := svc.Save(ctx, "billing", nil); !errors.Is(err, ErrUnknownSettingsSection) {
		t.Errorf("Expected ErrUnknownSettingsSection, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("Expected no API calls, got %d", len(api.calls))
	}

	if err := svc.Save(ctx, SectionSystem, map[string]any{"monitoringIntervalMinutes": 10}); err != nil {
		t.Fatal(err)
	}
	if api.last(t).path != "/User/settings/system" {
		t.Errorf("Unexpected path %s", api.last(t).path)
	}
}

func TestSettings_SaveThenGet(t *testing.T) {
	e := newEnv(t).admin(t)
	ctx := context.Background()

	if _, err := e.svc.Settings.Get(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.svc.Settings.Save(ctx, SectionGeneral, map[string]any{"language": "en-US"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	st, err := e.svc.Settings.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.General["language"] != "en-US" {
		t.Errorf("Expected saved language, got %v", st.General["language"])
	}
}
