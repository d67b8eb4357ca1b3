package mcpsync

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/internal/metrics"
	"github.com/agentstation/mcpsync/pkg/constants"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/store"
	pkgsync "github.com/agentstation/mcpsync/pkg/sync"
)

// Option is a function that configures a Client
type Option func(*config) error

type config struct {
	store            store.Store
	pager            pkgsync.Pager
	sourceURL        string
	token            string
	requireToken     bool
	pageDelay        time.Duration
	httpTimeout      time.Duration
	httpClient       *http.Client
	progressInterval int
	metrics          *metrics.Recorder
	logger           *zerolog.Logger
	now              func() time.Time
}

func defaultConfig() *config {
	return &config{
		sourceURL:        constants.DefaultSourceURL,
		pageDelay:        constants.DefaultPageDelay,
		httpTimeout:      constants.DefaultHTTPTimeout,
		progressInterval: constants.ProgressInterval,
		now:              time.Now,
	}
}

// WithStore sets the local store the client reconciles into. Required.
func WithStore(st store.Store) Option {
	return func(c *config) error {
		if st == nil {
			return &errors.ValidationError{Field: "store", Message: "cannot be nil"}
		}
		c.store = st
		return nil
	}
}

// WithPager replaces the PulseMCP directory client with another page source.
// Source URL, token and HTTP settings are ignored when a pager is set.
func WithPager(p pkgsync.Pager) Option {
	return func(c *config) error {
		c.pager = p
		return nil
	}
}

// WithSourceURL sets the URL of the first directory page
func WithSourceURL(url string) Option {
	return func(c *config) error {
		if url == "" {
			return &errors.ValidationError{Field: "source_url", Message: "cannot be empty"}
		}
		c.sourceURL = url
		return nil
	}
}

// WithToken sets the optional bearer credential sent to the directory.
func WithToken(token string) Option {
	return func(c *config) error {
		c.token = token
		return nil
	}
}

// WithTokenRequired makes New fail when no token is configured
func WithTokenRequired(required bool) Option {
	return func(c *config) error {
		c.requireToken = required
		return nil
	}
}

// WithPageDelay sets the pause between two page fetches
func WithPageDelay(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return &errors.ValidationError{Field: "page_delay", Value: d, Message: "cannot be negative"}
		}
		c.pageDelay = d
		return nil
	}
}

// WithHTTPTimeout sets the per-page request timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return &errors.ValidationError{Field: "http_timeout", Value: timeout, Message: "must be positive"}
		}
		c.httpTimeout = timeout
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for directory requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithProgressInterval sets how many entries pass between progress logs
func WithProgressInterval(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "progress_interval", Value: n, Message: "must be positive"}
		}
		c.progressInterval = n
		return nil
	}
}

// WithMetrics records every run on r
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *config) error {
		c.metrics = r
		return nil
	}
}

// WithLogger sets the logger shared by the directory client, the engine and runs
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithClock sets the time source used for record timestamps and run timing
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		c.now = now
		return nil
	}
}
