// Package constants provides shared constants used throughout the mcpsync codebase.
// This includes timeouts, limits, file permissions, and the fixed values the
// reconciliation engine relies on so they stay consistent across packages.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single source page request
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultPageDelay is the fixed pause between two page fetches to respect source rate limits
	DefaultPageDelay = 500 * time.Millisecond

	// SyncTimeout is the upper bound for a whole reconciliation pass started from the CLI
	SyncTimeout = 30 * time.Minute

	// ShutdownTimeout is how long the CLI waits for cleanup after a failed run
	ShutdownTimeout = 5 * time.Second

	// ConnMaxLifetime is the maximum lifetime of a pooled database connection
	ConnMaxLifetime = 5 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultPageSize is the number of servers requested per source page
	DefaultPageSize = 100

	// MaxTags is the maximum number of keyword tags kept per record
	MaxTags = 10

	// MinTagLength is the exclusive lower bound on tag length
	MinTagLength = 2

	// ProgressInterval is how many processed entries separate two progress notices
	ProgressInterval = 10

	// ErrorDisplayLimit is how many diagnostic messages a summary shows before eliding the rest
	ErrorDisplayLimit = 5

	// MaxOpenConns is the maximum number of open database connections
	MaxOpenConns = 25

	// MaxIdleConns is the maximum number of idle database connections
	MaxIdleConns = 5

	// MaxErrorBodySize caps how much of a failed response body is kept in an error
	MaxErrorBodySize = 4096
)

// Logging constants
const (
	// LogRotationSizeMB is the maximum size in megabytes of a log file before rotation
	LogRotationSizeMB = 10

	// LogRotationAgeDays is the maximum age in days of rotated log files
	LogRotationAgeDays = 7

	// LogRotationBackups is the maximum number of old log files to retain
	LogRotationBackups = 5
)

// Exit codes returned by the CLI
const (
	// ExitOK is returned when a run succeeds
	ExitOK = 0

	// ExitFailure is returned for configuration, page-level and other fatal failures
	ExitFailure = 1

	// ExitInterrupted is returned when the run was stopped by SIGINT/SIGTERM
	ExitInterrupted = 130
)

// Source constants
const (
	// DefaultSourceURL is the first page of the PulseMCP server directory
	DefaultSourceURL = "https://api.pulsemcp.com/v0beta/servers?count_per_page=100"

	// SourceName identifies the source in generated API documentation metadata
	SourceName = "pulsemcp"

	// APIDocVersion is the version stamped into generated API documentation metadata
	APIDocVersion = "1.0"

	// UserAgent is sent with every source request
	UserAgent = "mcpsync"
)

// Table names in the local store
const (
	// TableServers holds the primary catalog records
	TableServers = "servers"

	// TableInstallInstructions holds the dependent install instruction rows
	TableInstallInstructions = "server_install_instructions"
)
