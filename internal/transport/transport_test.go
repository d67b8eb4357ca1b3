package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/pkg/errors"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&NoAuth{}).Apply(req, "secret")
	assert.Empty(t, req.Header)
}

func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&BearerAuth{}).Apply(req, "secret")
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&HeaderAuth{Header: "x-api-key"}).Apply(req, "secret")
	assert.Equal(t, "secret", req.Header.Get("x-api-key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestClientHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(WithBearerToken("tok"), WithUserAgent("mcpsync-test"))
	assert.True(t, c.HasCredential())

	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	var body struct{ OK bool }
	require.NoError(t, DecodeResponse(resp, "test", &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "mcpsync-test", got.Get("User-Agent"))
}

func TestClientWithoutToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(WithBearerToken(""))
	assert.False(t, c.HasCredential())

	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NoError(t, DecodeResponse(resp, "test", &struct{}{}))
	assert.Empty(t, auth)
}

func TestDecodeResponseErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/denied":
			http.Error(w, "invalid token", http.StatusUnauthorized)
		case "/busy":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	c := New()
	ctx := context.Background()

	resp, err := c.Get(ctx, srv.URL+"/denied")
	require.NoError(t, err)
	err = DecodeResponse(resp, "test", &struct{}{})
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid token", apiErr.Message)
	assert.True(t, errors.IsCredentialError(err))

	resp, err = c.Get(ctx, srv.URL+"/busy")
	require.NoError(t, err)
	err = DecodeResponse(resp, "test", &struct{}{})
	assert.True(t, errors.Is(err, errors.ErrSourceUnavailable))

	resp, err = c.Get(ctx, srv.URL+"/garbage")
	require.NoError(t, err)
	err = DecodeResponse(resp, "test", &struct{}{})
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
