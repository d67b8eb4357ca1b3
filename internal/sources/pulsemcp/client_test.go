package pulsemcp_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/internal/sources/pulsemcp"
	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
)

// directory serves page 1 with a next link to page 2 and page 2 without one.
func directory(t *testing.T, requests *atomic.Int32, relativeNext bool) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "", "1":
			next := fmt.Sprintf("%q", srv.URL+"/servers?page=2")
			if relativeNext {
				next = `"/servers?page=2"`
			}
			fmt.Fprintf(w, `{"servers":[{"name":"One"},{"name":"Two"}],"next":%s}`, next)
		case "2":
			fmt.Fprint(w, `{"servers":[{"name":"Three"}],"next":null}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.calls = append(s.calls, d)
}

func newClient(srv *httptest.Server, sleeper *sleepRecorder, opts ...pulsemcp.Option) *pulsemcp.Client {
	base := []pulsemcp.Option{
		pulsemcp.WithBaseURL(srv.URL + "/servers?page=1"),
		pulsemcp.WithSleep(sleeper.sleep),
		pulsemcp.WithLogger(logging.NewNopLogger()),
	}
	return pulsemcp.New(append(base, opts...)...)
}

func TestPagesStopsAfterLastPage(t *testing.T) {
	for _, relative := range []bool{false, true} {
		t.Run(fmt.Sprintf("relative=%v", relative), func(t *testing.T) {
			var requests atomic.Int32
			srv := directory(t, &requests, relative)
			sleeper := &sleepRecorder{}

			var names []string
			pages := 0
			for page, err := range newClient(srv, sleeper).Pages(context.Background()) {
				require.NoError(t, err)
				pages++
				for _, s := range page.Servers {
					names = append(names, s.Name)
				}
			}

			assert.Equal(t, 2, pages)
			assert.Equal(t, []string{"One", "Two", "Three"}, names)
			assert.Equal(t, int32(2), requests.Load())
			assert.Equal(t, []time.Duration{500 * time.Millisecond}, sleeper.calls, "delay only between pages")
		})
	}
}

func TestPagesStopsWhenConsumerBreaks(t *testing.T) {
	var requests atomic.Int32
	srv := directory(t, &requests, false)
	sleeper := &sleepRecorder{}

	for range newClient(srv, sleeper).Pages(context.Background()) {
		break
	}

	assert.Equal(t, int32(1), requests.Load())
	assert.Empty(t, sleeper.calls)
}

func TestPagesYieldsPageErrorOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"servers":[{"name":"One"}],"next":"/servers?page=2"}`)
	}))
	defer srv.Close()

	var errs []error
	pages := 0
	for page, err := range newClient(srv, &sleepRecorder{}).Pages(context.Background()) {
		if err != nil {
			assert.Nil(t, page)
			errs = append(errs, err)
			continue
		}
		pages++
	}

	assert.Equal(t, 1, pages)
	require.Len(t, errs, 1)
	assert.True(t, errors.IsFatalPage(errs[0]))
	assert.True(t, errors.Is(errs[0], errors.ErrSourceUnavailable))

	var pageErr *errors.PageError
	require.True(t, errors.As(errs[0], &pageErr))
	assert.Equal(t, 2, pageErr.Page)
	assert.Equal(t, srv.URL+"/servers?page=2", pageErr.URL)
}

func TestPagesHonorsCancellation(t *testing.T) {
	var requests atomic.Int32
	srv := directory(t, &requests, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got error
	for _, err := range newClient(srv, &sleepRecorder{}).Pages(ctx) {
		got = err
	}

	assert.True(t, errors.IsCanceled(got))
	assert.Zero(t, requests.Load())
}

func TestFetchPageSendsHeaders(t *testing.T) {
	var auth, accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		accept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"servers":[],"next":null}`)
	}))
	defer srv.Close()

	client := newClient(srv, &sleepRecorder{}, pulsemcp.WithToken("secret-token"))
	page, err := client.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, page.Servers)
	assert.False(t, page.HasNext())
	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "application/json", accept)
}

func TestFetchPageCredentialRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	tl := logging.NewTestLogger(t)
	client := pulsemcp.New(
		pulsemcp.WithBaseURL(srv.URL),
		pulsemcp.WithToken("abcdefghijklmnopqrstuvwxyz"),
		pulsemcp.WithLogger(tl.Logger),
	)

	_, err := client.FetchPage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsCredentialError(err))
	tl.AssertContains(t, "abcdefghij...vwxyz")
	tl.AssertNotContains(t, "abcdefghijklmnopqrstuvwxyz")
}

func TestFetchPageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"servers": [`)
	}))
	defer srv.Close()

	_, err := newClient(srv, &sleepRecorder{}).FetchPage(context.Background(), srv.URL)
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestDefaults(t *testing.T) {
	client := pulsemcp.New()
	assert.Equal(t, "https://api.pulsemcp.com/v0beta/servers?count_per_page=100", client.BaseURL())

	var _ interface {
		FetchPage(context.Context, string) (*catalog.Page, error)
	} = client
}
