// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success represents successful completion of an operation.
	// Used for: completed syncs, applied migrations, configured credentials.
	Success = "✓"

	// Error represents failures or missing required configuration.
	// Used for: failed syncs, missing credentials, unreachable stores.
	Error = "✗"

	// Stop represents an interrupted operation.
	// Used for: syncs stopped by SIGINT or SIGTERM.
	Stop = "■"

	// Warning represents warnings or non-critical issues.
	// Used for: the per-entry error list.
	Warning = "!"

	// Optional represents optional or skipped configuration.
	Optional = "-"

	// Bullet prefixes list items in summaries.
	Bullet = "•"

	// Info represents informational messages.
	Info = "i"
)
