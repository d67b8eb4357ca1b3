package sync

import (
	"fmt"
	"strings"
	"time"
)

// Stats are the aggregate counters of one run.
type Stats struct {
	Total      int      `json:"total" yaml:"total"`
	Added      int      `json:"added" yaml:"added"`
	Updated    int      `json:"updated" yaml:"updated"`
	Skipped    int      `json:"skipped" yaml:"skipped"`
	ErrorCount int      `json:"error_count" yaml:"error_count"`
	Errors     []string `json:"errors" yaml:"errors"`
}

// Display returns at most limit messages and how many were left out.
// A non-positive limit returns every message.
func (s Stats) Display(limit int) ([]string, int) {
	if limit <= 0 || len(s.Errors) <= limit {
		return s.Errors, 0
	}
	return s.Errors[:limit], len(s.Errors) - limit
}

// String returns the one-line counter summary.
func (s Stats) String() string {
	return fmt.Sprintf("Total: %d, Added: %d, Updated: %d, Skipped: %d, Errors: %d",
		s.Total, s.Added, s.Updated, s.Skipped, s.ErrorCount)
}

// Result represents the complete result of a sync run.
type Result struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	Success     bool          `json:"success" yaml:"success"`
	Interrupted bool          `json:"interrupted" yaml:"interrupted"`
	Message     string        `json:"message" yaml:"message"`
	Stats       Stats         `json:"stats" yaml:"stats"`
	Pages       int           `json:"pages" yaml:"pages"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`

	// Err is the page-level or cancellation error that ended the run.
	Err error `json:"-" yaml:"-"`
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	var b strings.Builder
	switch {
	case r.Interrupted:
		b.WriteString("Sync interrupted")
	case r.Success:
		b.WriteString("Sync completed")
	default:
		b.WriteString("Sync failed")
	}
	fmt.Fprintf(&b, " after %d pages in %.2fs: %s", r.Pages, r.Duration.Seconds(), r.Stats)
	return b.String()
}

// HasErrors reports whether any entry or page failed.
func (r *Result) HasErrors() bool {
	return r.Stats.ErrorCount > 0
}
