package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/internal/auth"
	"github.com/agentstation/mcpsync/pkg/constants"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
)

const directoryPage = `{
  "servers": [
    {"name": "Demo Auth", "short_description": "auth for apps", "source_code_url": "https://github.com/acme/demo-auth", "package_registry": "npm", "package_name": "demo-auth"},
    {"name": "Docs Search", "short_description": "search document collections"}
  ],
  "next": null
}`

func newDirectory(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, directoryPage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(sourceURL string) *Config {
	return &Config{
		SourceURL:         sourceURL,
		HTTPTimeout:       5 * time.Second,
		DatabaseDriver:    DriverMemory,
		ProgressInterval:  constants.ProgressInterval,
		ErrorDisplayLimit: constants.ErrorDisplayLimit,
		LogFormat:         "json",
		LogOutput:         "discard",
	}
}

func newTestApp(t *testing.T, config *Config, out *bytes.Buffer) *App {
	t.Helper()
	app, err := New("1.0.0", "abc123", "2025-08-01", "test",
		WithConfig(config),
		WithLogger(logging.NewNopLogger()),
		WithOutput(out),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t, testConfig("http://example.invalid"), &bytes.Buffer{})

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2025-08-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())
	assert.NotNil(t, app.Metrics())
}

func TestApp_ClientSingleton(t *testing.T) {
	app := newTestApp(t, testConfig("http://example.invalid"), &bytes.Buffer{})

	c1, err := app.Client(context.Background())
	require.NoError(t, err)
	c2, err := app.Client(context.Background())
	require.NoError(t, err)
	assert.Same(t, c1, c2)
}

func TestApp_ClientRejectsInvalidConfig(t *testing.T) {
	config := testConfig("http://example.invalid")
	config.DatabaseDriver = "postgres"

	app := newTestApp(t, config, &bytes.Buffer{})
	_, err := app.Client(context.Background())
	assert.True(t, errors.IsConfigError(err))
}

func TestExecuteSync(t *testing.T) {
	srv := newDirectory(t, http.StatusOK)
	var out bytes.Buffer
	app := newTestApp(t, testConfig(srv.URL), &out)

	err := app.Execute(context.Background(), []string{"sync", "-o", "json"})
	require.NoError(t, err)
	assert.Equal(t, constants.ExitOK, ExitCode(err))

	var report struct {
		Result struct {
			Success bool `json:"success"`
			Stats   struct {
				Total int `json:"total"`
				Added int `json:"added"`
			} `json:"stats"`
		} `json:"result"`
		After struct {
			Servers             int `json:"servers"`
			InstallInstructions int `json:"install_instructions"`
		} `json:"after"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Result.Success)
	assert.Equal(t, 2, report.Result.Stats.Total)
	assert.Equal(t, 2, report.Result.Stats.Added)
	assert.Equal(t, 2, report.After.Servers)
	assert.Equal(t, 2, report.After.InstallInstructions)
}

func TestExecuteSyncSummaryAndStatus(t *testing.T) {
	srv := newDirectory(t, http.StatusOK)
	var out bytes.Buffer
	app := newTestApp(t, testConfig(srv.URL), &out)

	require.NoError(t, app.Execute(context.Background(), []string{"sync", "-o", "table"}))
	assert.Contains(t, out.String(), "Sync operation completed in")
	assert.Contains(t, out.String(), "servers: 0 → 2 (+2 new records)")

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"status", "-o", "yaml"}))
	assert.Contains(t, out.String(), "servers: 2")
}

func TestExecuteSyncPageFailure(t *testing.T) {
	srv := newDirectory(t, http.StatusServiceUnavailable)
	var out bytes.Buffer
	app := newTestApp(t, testConfig(srv.URL), &out)

	err := app.Execute(context.Background(), []string{"sync", "-o", "table"})
	require.Error(t, err)
	assert.True(t, errors.IsFatalPage(err))
	assert.Equal(t, constants.ExitFailure, ExitCode(err))
	assert.Contains(t, out.String(), "Sync operation failed")
}

func TestExecuteSyncInterrupted(t *testing.T) {
	srv := newDirectory(t, http.StatusOK)
	var out bytes.Buffer
	app := newTestApp(t, testConfig(srv.URL), &out)

	ctx, cancel := context.WithCancel(context.Background())
	client, err := app.Client(ctx)
	require.NoError(t, err)
	require.NotNil(t, client)
	cancel()

	err = app.Execute(ctx, []string{"sync", "-o", "table"})
	require.Error(t, err)
	assert.Equal(t, constants.ExitInterrupted, ExitCode(err))
}

func TestExecuteSyncWritesMetrics(t *testing.T) {
	srv := newDirectory(t, http.StatusOK)
	config := testConfig(srv.URL)
	config.MetricsTextfile = filepath.Join(t.TempDir(), "mcpsync.prom")

	app := newTestApp(t, config, &bytes.Buffer{})
	require.NoError(t, app.Execute(context.Background(), []string{"sync", "-o", "json"}))

	data, err := os.ReadFile(config.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mcpsync_pages_fetched_total 1")
}

func TestExecuteMigrateAndVersion(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, testConfig("http://example.invalid"), &out)

	require.NoError(t, app.Execute(context.Background(), []string{"migrate"}))
	assert.Contains(t, out.String(), "Schema is up to date")

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), "mcpsync 1.0.0")
}

func TestCredential(t *testing.T) {
	config := testConfig("http://example.invalid")
	app := newTestApp(t, config, &bytes.Buffer{})
	assert.Equal(t, auth.StateOptional, app.Credential().State)

	config.Token = "abcdefghijklmnopqrstuvwxyz"
	config.TokenSource = "env"
	status := app.Credential()
	assert.Equal(t, auth.StateConfigured, status.State)
	assert.Equal(t, "abcdefghij...vwxyz", status.Details.Masked)

	var out bytes.Buffer
	app = newTestApp(t, config, &out)
	require.NoError(t, app.Execute(context.Background(), []string{"auth", "-o", "json"}))
	assert.Contains(t, out.String(), `"state": "configured"`)
	assert.NotContains(t, out.String(), config.Token)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, constants.ExitOK, ExitCode(nil))
	assert.Equal(t, constants.ExitInterrupted, ExitCode(fmt.Errorf("%w: stop", errors.ErrCanceled)))
	assert.Equal(t, constants.ExitInterrupted, ExitCode(context.Canceled))
	assert.Equal(t, constants.ExitFailure, ExitCode(errors.New("boom")))
}
