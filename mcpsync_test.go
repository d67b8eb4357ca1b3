package mcpsync_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync"
	"github.com/agentstation/mcpsync/internal/metrics"
	"github.com/agentstation/mcpsync/internal/store/memory"
	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
	"github.com/agentstation/mcpsync/pkg/reconcile"
	"github.com/agentstation/mcpsync/pkg/store"
)

var fixedNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

const firstPage = `{
  "servers": [
    {
      "name": "Demo Auth",
      "short_description": "auth for apps",
      "source_code_url": "https://github.com/acme/demo-auth",
      "package_registry": "npm",
      "package_name": "demo-auth",
      "github_stars": 12
    }
  ],
  "next": "/v0beta/servers?offset=1"
}`

const secondPage = `{
  "servers": [
    {
      "name": "Vector Memory",
      "short_description": "Postgres database memory for agents",
      "external_url": "https://example.com/vector-memory",
      "install_instructions": [
        {"platform": "Docker", "install_command": "docker run vector-memory"}
      ]
    }
  ],
  "next": null
}`

// newDirectory serves a two-page directory and records the Authorization headers it saw.
func newDirectory(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "1" {
			fmt.Fprint(w, secondPage)
			return
		}
		fmt.Fprint(w, firstPage)
	}))
	t.Cleanup(srv.Close)
	return srv, &auth
}

func newClient(t *testing.T, srv *httptest.Server, st store.Store, opts ...mcpsync.Option) *mcpsync.Client {
	t.Helper()
	base := []mcpsync.Option{
		mcpsync.WithStore(st),
		mcpsync.WithSourceURL(srv.URL + "/v0beta/servers"),
		mcpsync.WithPageDelay(0),
		mcpsync.WithClock(func() time.Time { return fixedNow }),
		mcpsync.WithLogger(logging.NewNopLogger()),
	}
	client, err := mcpsync.New(append(base, opts...)...)
	require.NoError(t, err)
	return client
}

func TestNewRequiresStore(t *testing.T) {
	_, err := mcpsync.New()
	assert.True(t, errors.IsConfigError(err))
}

func TestNewRequiresTokenWhenConfigured(t *testing.T) {
	_, err := mcpsync.New(mcpsync.WithStore(memory.New()), mcpsync.WithTokenRequired(true))
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.ErrorIs(t, err, errors.ErrCredentialRequired)

	_, err = mcpsync.New(mcpsync.WithStore(memory.New()), mcpsync.WithTokenRequired(true), mcpsync.WithToken("secret"))
	assert.NoError(t, err)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := mcpsync.New(mcpsync.WithStore(memory.New()), mcpsync.WithPageDelay(-time.Second))
	assert.True(t, errors.IsValidationError(err))

	_, err = mcpsync.New(mcpsync.WithStore(memory.New()), mcpsync.WithProgressInterval(0))
	assert.True(t, errors.IsValidationError(err))
}

func TestSyncReconcilesDirectory(t *testing.T) {
	srv, auth := newDirectory(t)
	st := memory.New()
	recorder := metrics.New()
	client := newClient(t, srv, st, mcpsync.WithToken("secret-token"), mcpsync.WithMetrics(recorder))

	var added []string
	client.OnServerAdded(func(applied reconcile.Applied) { added = append(added, applied.ID) })

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Success())
	assert.Equal(t, "MCP servers sync completed", report.Message())
	stats := report.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Added)
	assert.Zero(t, stats.ErrorCount)
	assert.Equal(t, 2, report.Result.Pages)
	assert.Equal(t, []string{"acme/demo-auth", "vector-memory"}, added)
	assert.Equal(t, []string{"Bearer secret-token", "Bearer secret-token"}, *auth)

	rec, err := st.FindByID(context.Background(), "vector-memory")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, catalog.CategoryDatabase, rec.Category)
	assert.Equal(t, "https://example.com/vector-memory", catalog.Deref(rec.ExternalURL))

	changes := report.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, "servers: 0 → 2 (+2 new records)", changes[0].String())
	assert.Equal(t, "server_install_instructions: 0 → 3 (+3 new records)", changes[1].String())

	assert.Equal(t, float64(2), testutil.ToFloat64(recorder.PagesTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.LastRunSuccess))
}

func TestSyncIsIdempotent(t *testing.T) {
	srv, _ := newDirectory(t)
	st := memory.New()
	client := newClient(t, srv, st)

	var calls int
	client.OnServerUpdated(func(reconcile.Applied) { calls++ })

	_, err := client.Sync(context.Background())
	require.NoError(t, err)

	report, err := client.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Stats().Added)
	assert.Equal(t, 2, report.Stats().Updated)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "servers: 2 → 2 (no change)", report.Changes()[0].String())

	counts, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.Counts{Servers: 2, InstallInstructions: 3}, counts)
}

func TestSyncReportsPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := newClient(t, srv, memory.New())
	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Success())
	assert.Contains(t, report.Message(), "Sync process failed")
	assert.True(t, errors.IsFatalPage(report.Result.Err))
	assert.True(t, report.Counted)
}

func TestSyncInterrupted(t *testing.T) {
	srv, _ := newDirectory(t)
	client := newClient(t, srv, memory.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.OnServerAdded(func(reconcile.Applied) { cancel() })

	report, err := client.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, report.Result.Interrupted)
	assert.False(t, report.Success())
	assert.Equal(t, 1, report.Stats().Added)
	assert.True(t, report.Counted)
	assert.Equal(t, 1, report.After.Servers)
}

func TestSyncSurvivesPanickingHook(t *testing.T) {
	srv, _ := newDirectory(t)
	st := memory.New()
	client := newClient(t, srv, st)

	var calls int
	client.OnServerAdded(func(reconcile.Applied) { panic("hook") })
	client.OnServerAdded(func(reconcile.Applied) { calls++ })

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Success())
	stats := report.Stats()
	assert.Equal(t, 2, stats.Added)
	assert.Zero(t, stats.Skipped)
	assert.Zero(t, stats.ErrorCount)
	assert.Empty(t, stats.Errors)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, report.After.Servers)
	assert.Len(t, st.Records(), 2)
}

func TestMigrateWithoutSchema(t *testing.T) {
	client, err := mcpsync.New(mcpsync.WithStore(memory.New()))
	require.NoError(t, err)

	applied, err := client.Migrate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.NoError(t, client.Close())
}

func TestTableChangeString(t *testing.T) {
	tests := []struct {
		change mcpsync.TableChange
		want   string
	}{
		{mcpsync.TableChange{Table: "servers", Before: 10, After: 12}, "servers: 10 → 12 (+2 new records)"},
		{mcpsync.TableChange{Table: "servers", Before: 12, After: 10}, "servers: 12 → 10 (-2 records removed)"},
		{mcpsync.TableChange{Table: "servers", Before: 4, After: 4}, "servers: 4 → 4 (no change)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.change.String())
	}
}

func TestReportWithoutCounts(t *testing.T) {
	report := &mcpsync.Report{}
	assert.Nil(t, report.Changes())
	assert.False(t, report.Success())
	assert.Empty(t, report.Message())
}
