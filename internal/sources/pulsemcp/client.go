// Package pulsemcp fetches the paginated PulseMCP server directory.
package pulsemcp

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/internal/auth"
	"github.com/agentstation/mcpsync/internal/transport"
	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/constants"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
)

// Client fetches directory pages.
type Client struct {
	baseURL   string
	token     string
	delay     time.Duration
	sleep     func(time.Duration)
	logger    *zerolog.Logger
	transport *transport.Client
	tOpts     []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the URL of the first page.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithToken sets the bearer credential. Empty means unauthenticated.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.tOpts = append(c.tOpts, transport.WithHTTPClient(hc))
	}
}

// WithTimeout sets the per-page request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.tOpts = append(c.tOpts, transport.WithTimeout(timeout))
	}
}

// WithPageDelay sets the pause between two page fetches.
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithSleep replaces the function used for the inter-page pause.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a directory client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: constants.DefaultSourceURL,
		delay:   constants.DefaultPageDelay,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}

	tOpts := append([]transport.Option{
		transport.WithBearerToken(c.token),
		transport.WithUserAgent(constants.UserAgent),
	}, c.tOpts...)
	c.transport = transport.New(tOpts...)
	return c
}

// BaseURL returns the URL of the first page.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage fetches and decodes one page. A relative next cursor is
// resolved against pageURL.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*catalog.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	resp, err := c.transport.Get(ctx, pageURL)
	if err != nil {
		return nil, &errors.APIError{
			Source:   constants.SourceName,
			Endpoint: pageURL,
			Message:  "request failed",
			Err:      err,
		}
	}

	var page catalog.Page
	if err := transport.DecodeResponse(resp, constants.SourceName, &page); err != nil {
		if errors.IsCredentialError(err) {
			c.logCredential(ctx, err)
		}
		return nil, err
	}

	if page.HasNext() {
		next, err := resolve(pageURL, *page.Next)
		if err != nil {
			return nil, errors.WrapParse("url", *page.Next, err)
		}
		page.Next = &next
	}
	return &page, nil
}

// Pages returns the lazy sequence of directory pages starting at the base
// URL. After the consumer handles a page that has a next cursor, the
// client pauses for the page delay and fetches the next one. A failed
// fetch yields a single *errors.PageError and ends the sequence.
func (c *Client) Pages(ctx context.Context) iter.Seq2[*catalog.Page, error] {
	return func(yield func(*catalog.Page, error) bool) {
		pageURL := c.baseURL
		for n := 1; ; n++ {
			c.log(ctx).Debug().Int("page", n).Str("url", pageURL).Msg("Fetching page")

			page, err := c.FetchPage(ctx, pageURL)
			if err != nil {
				yield(nil, errors.NewPageError(pageURL, n, err))
				return
			}
			if !yield(page, nil) {
				return
			}
			if !page.HasNext() {
				return
			}

			c.sleep(c.delay)
			pageURL = *page.Next
		}
	}
}

func (c *Client) logCredential(ctx context.Context, err error) {
	event := c.log(ctx).Warn().Err(err).Bool("token_set", c.token != "")
	if c.token != "" {
		event = event.Str("token", auth.MaskToken(c.token))
		if role, roleErr := auth.Role(c.token); roleErr == nil {
			event = event.Str("role", role)
		}
	}
	event.Msg("Directory rejected the credential")
}

func (c *Client) log(ctx context.Context) *zerolog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.FromContext(ctx)
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
