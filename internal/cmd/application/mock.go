// Package application provides test doubles for the command application interface.
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync"
	app "github.com/agentstation/mcpsync/cmd/application"
	"github.com/agentstation/mcpsync/internal/auth"
	"github.com/agentstation/mcpsync/pkg/store"
	"github.com/agentstation/mcpsync/pkg/sync"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ClientFunc       func(ctx context.Context) (app.Client, error)
	CredentialFunc   func() *auth.Status
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	ErrorLimit       int
	Migrate          bool
	WriteMetricsFunc func() error
	VersionString    string
}

var _ app.Application = (*Mock)(nil)

// Client returns a client using the mock function or nil.
func (m *Mock) Client(ctx context.Context) (app.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(ctx)
	}
	return nil, nil
}

// Credential returns the credential status using the mock function or an optional status.
func (m *Mock) Credential() *auth.Status {
	if m.CredentialFunc != nil {
		return m.CredentialFunc()
	}
	return &auth.Status{State: auth.StateOptional}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// ErrorDisplayLimit returns ErrorLimit.
func (m *Mock) ErrorDisplayLimit() int {
	return m.ErrorLimit
}

// AutoMigrate returns Migrate.
func (m *Mock) AutoMigrate() bool {
	return m.Migrate
}

// WriteMetrics calls the mock function if set.
func (m *Mock) WriteMetrics() error {
	if m.WriteMetricsFunc != nil {
		return m.WriteMetricsFunc()
	}
	return nil
}

// Version returns VersionString or "dev".
func (m *Mock) Version() string {
	if m.VersionString != "" {
		return m.VersionString
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Client is a configurable fake of application.Client.
type Client struct {
	SyncFunc    func(ctx context.Context, opts ...sync.Option) (*mcpsync.Report, error)
	StatusFunc  func(ctx context.Context) (store.Counts, error)
	MigrateFunc func(ctx context.Context) (int, error)
}

// Sync calls SyncFunc or returns an empty successful report.
func (c *Client) Sync(ctx context.Context, opts ...sync.Option) (*mcpsync.Report, error) {
	if c.SyncFunc != nil {
		return c.SyncFunc(ctx, opts...)
	}
	return &mcpsync.Report{Result: &sync.Result{Success: true, Message: sync.MessageCompleted}}, nil
}

// Status calls StatusFunc or returns zero counts.
func (c *Client) Status(ctx context.Context) (store.Counts, error) {
	if c.StatusFunc != nil {
		return c.StatusFunc(ctx)
	}
	return store.Counts{}, nil
}

// Migrate calls MigrateFunc or reports nothing applied.
func (c *Client) Migrate(ctx context.Context) (int, error) {
	if c.MigrateFunc != nil {
		return c.MigrateFunc(ctx)
	}
	return 0, nil
}
