package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rodriigosc/campaign-watch/fake"
	"github.com/rodriigosc/campaign-watch/logger"
)

var configKeys = []string{
	"CAMPAIGN_WATCH_API_URL",
	"VITE_API_URL",
	"CAMPAIGN_WATCH_TIMEOUT_MS",
	"CAMPAIGN_WATCH_CACHE_DURATION_MS",
	"CAMPAIGN_WATCH_MAX_RETRIES",
	"CAMPAIGN_WATCH_RETRY_DELAY_MS",
	"CAMPAIGN_WATCH_ENV",
	"CAMPAIGN_WATCH_TOKEN_STORE",
	"CAMPAIGN_WATCH_HOME",
	"CAMPAIGN_WATCH_REDIS_URL",
	"CAMPAIGN_WATCH_ALL_PROXY",
	"CAMPAIGN_WATCH_METRICS_ADDR",
}

// cliEnv points the commands at a fresh fake API. The session lives in a
// file store under a temp dir, so it carries over between run* calls the
// way it does between real invocations.
type cliEnv struct {
	fake    *fake.Server
	notices *bytes.Buffer
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	t.Setenv("CAMPAIGN_WATCH_TOKEN_STORE", "file")
	t.Setenv("CAMPAIGN_WATCH_HOME", t.TempDir())
	t.Setenv("CAMPAIGN_WATCH_MAX_RETRIES", "1")
	t.Setenv("CAMPAIGN_WATCH_RETRY_DELAY_MS", "1")
	t.Setenv("CAMPAIGN_WATCH_TIMEOUT_MS", "2000")

	f := fake.New(fake.WithLogger(logger.Discard()))
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	apiURL = fake.BaseURL(srv.URL)
	notices := &bytes.Buffer{}
	errOut = notices
	outputFormat = formatTable
	jsonOutput = false
	t.Cleanup(func() {
		apiURL = ""
		errOut = os.Stderr
		outputFormat = formatTable
		jsonOutput = false
	})

	return &cliEnv{fake: f, notices: notices}
}

func (e *cliEnv) login(t *testing.T, email, password string) {
	t.Helper()
	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, email, password); code != exitOK {
		t.Fatalf("login as %s: exit %d: %s", email, code, buf.String())
	}
}

func (e *cliEnv) admin(t *testing.T) {
	e.login(t, fake.AdminEmail, fake.AdminPassword)
}
