// ABOUTME: End-to-end tests for the CLI commands against the in-memory API
// ABOUTME: Verifies output, session persistence and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rodriigosc/campaign-watch/fake"
	"github.com/rodriigosc/campaign-watch/models"
)

func TestLogin_Success(t *testing.T) {
	newCLIEnv(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, fake.AdminEmail, fake.AdminPassword)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as Ana Admin (Admin)") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	newCLIEnv(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, fake.AdminEmail, "wrong")

	if code != exitError {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Error: Invalid email or password") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
}

func TestLogin_Unreachable(t *testing.T) {
	newCLIEnv(t)
	apiURL = "http://127.0.0.1:1/api"

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, fake.AdminEmail, fake.AdminPassword)

	if code != exitUnreachable {
		t.Errorf("expected exit code 2, got %d: %s", code, buf.String())
	}
}

func TestSessionPersistsAcrossCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), fake.AdminEmail) {
		t.Errorf("expected email in whoami output, got %q", buf.String())
	}

	buf.Reset()
	if code := runLogout(context.Background(), &buf); code != exitOK {
		t.Fatalf("logout: exit %d", code)
	}

	buf.Reset()
	if code := runWhoami(context.Background(), &buf); code != exitSession {
		t.Errorf("expected exit code 3 after logout, got %d", code)
	}
	if !strings.Contains(buf.String(), "not logged in") {
		t.Errorf("expected login hint, got %q", buf.String())
	}
}

func TestClientsList_RequiresSession(t *testing.T) {
	env := newCLIEnv(t)

	var buf bytes.Buffer
	code := runClientsList(context.Background(), &buf, "", 1, defaultPageSize)

	if code != exitSession {
		t.Errorf("expected exit code 3, got %d", code)
	}
	if env.fake.Hits(http.MethodGet, "/Client") != 0 {
		t.Error("expected no API call without a session")
	}
}

func TestClientsList_Filter(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	var buf bytes.Buffer
	code := runClientsList(context.Background(), &buf, "banco", 1, defaultPageSize)
	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	out := buf.String()
	for _, expected := range []string{"Banco Alfa", "Banco Beta", "Banco Gama", "Page 1 of 1 (3 clients)"} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected output to contain %q:\n%s", expected, out)
		}
	}
	if strings.Contains(out, "Acme Retail") {
		t.Error("expected Acme Retail to be filtered out")
	}
}

func TestClientsList_JSONPage(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)
	jsonOutput = true

	var buf bytes.Buffer
	if code := runClientsList(context.Background(), &buf, "banco", 2, 2); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	var clients []models.Client
	if err := json.Unmarshal(buf.Bytes(), &clients); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(clients) != 1 || clients[0].Name != "Banco Gama" {
		t.Errorf("expected only Banco Gama on page 2, got %+v", clients)
	}
}

func TestCampaignsList_ByClient(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)
	jsonOutput = true

	var buf bytes.Buffer
	opts := campaignListOptions{client: "acme retail", page: 1, pageSize: defaultPageSize}
	if code := runCampaignsList(context.Background(), &buf, opts); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	var campaigns []models.Campaign
	if err := json.Unmarshal(buf.Bytes(), &campaigns); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(campaigns) != 2 {
		t.Errorf("expected 2 Acme campaigns, got %d", len(campaigns))
	}
}

func TestCampaignsGet(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	var buf bytes.Buffer
	if code := runCampaignsGet(context.Background(), &buf, "m-2"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "VIP Segmentation") {
		t.Errorf("expected campaign name in output:\n%s", buf.String())
	}
}

func TestUsers_NonAdminRefused(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, fake.ViewerEmail, fake.ViewerPassword)

	var buf bytes.Buffer
	code := runUsersList(context.Background(), &buf)

	if code != exitError {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "only administrators") {
		t.Errorf("unexpected output: %q", buf.String())
	}
	if env.fake.Hits(http.MethodGet, "/User") != 0 {
		t.Error("expected no API call for a non-admin")
	}
}

func TestUsers_CreateDuplicate(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	var buf bytes.Buffer
	in := models.UserInput{Name: "Nina", Email: "nina@example.com", Password: "secret1", Role: "Viewer"}
	if code := runUsersCreate(context.Background(), &buf, in); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	buf.Reset()
	if code := runUsersCreate(context.Background(), &buf, in); code != exitError {
		t.Errorf("expected exit code 1 for duplicate, got %d", code)
	}
	if !strings.Contains(buf.String(), "Email already registered") {
		t.Errorf("expected duplicate message, got %q", buf.String())
	}
}

func TestAlerts_CreateAndList(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	var buf bytes.Buffer
	in := models.AlertConfiguration{
		Name:          "Acme: delays",
		Type:          "email",
		ConditionType: "ExecutionDelayed",
		MinSeverity:   "Warning",
		Recipient:     "ops@acme.test",
		IsActive:      true,
	}
	if code := runAlertsCreate(context.Background(), &buf, "c-01", in); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "(c-01)") {
		t.Errorf("expected client scope in output, got %q", buf.String())
	}

	buf.Reset()
	if code := runAlertsList(context.Background(), &buf, "c-01"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Acme: delays") {
		t.Errorf("expected new alert in list:\n%s", buf.String())
	}

	buf.Reset()
	if code := runAlertsList(context.Background(), &buf, "global"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if strings.Contains(buf.String(), "Acme: delays") {
		t.Error("expected client alert to stay out of the global list")
	}
}

func TestDashboard(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	var buf bytes.Buffer
	if code := runDashboard(context.Background(), &buf, ""); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	for _, expected := range []string{"Campaigns", "Health score", "Recent issues", "SMS channel rejected the batch"} {
		if !strings.Contains(buf.String(), expected) {
			t.Errorf("expected output to contain %q:\n%s", expected, buf.String())
		}
	}
}

func TestDashboard_RevokedSession(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)
	env.fake.RevokeSessions()

	var buf bytes.Buffer
	if code := runDashboard(context.Background(), &buf, ""); code != exitSession {
		t.Errorf("expected exit code 3, got %d: %s", code, buf.String())
	}

	buf.Reset()
	if code := runWhoami(context.Background(), &buf); code != exitSession {
		t.Errorf("expected stored session to be cleared, got exit %d", code)
	}
}

func TestSettingsGet(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	var buf bytes.Buffer
	if code := runSettingsGet(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "profile") || !strings.Contains(buf.String(), fake.AdminEmail) {
		t.Errorf("expected profile section in output:\n%s", buf.String())
	}
}

func TestDisclaimer_ShownUntilAccepted(t *testing.T) {
	env := newCLIEnv(t)
	env.admin(t)

	if !strings.Contains(env.notices.String(), "Campaign Watch shows monitoring data") {
		t.Fatalf("expected disclaimer before acceptance, got %q", env.notices.String())
	}

	var buf bytes.Buffer
	if code := runDisclaimerAccept(context.Background(), &buf); code != exitOK {
		t.Fatalf("accept: exit %d", code)
	}

	env.notices.Reset()
	buf.Reset()
	runWhoami(context.Background(), &buf)
	if env.notices.Len() != 0 {
		t.Errorf("expected no disclaimer after acceptance, got %q", env.notices.String())
	}
}

func TestFakeAPI_ServesUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := make(chan int, 1)
	go func() {
		done <- runFakeAPI(ctx, &buf, ln)
	}()

	body := strings.NewReader(`{"email":"` + fake.AdminEmail + `","password":"` + fake.AdminPassword + `"}`)
	resp, err := http.Post(fake.BaseURL("http://"+ln.Addr().String())+"/User/login", "application/json", body)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from fake API, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case code := <-done:
		if code != exitOK {
			t.Errorf("expected clean shutdown, got exit %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fake API did not shut down")
	}
}
