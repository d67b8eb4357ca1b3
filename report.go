package mcpsync

import (
	"fmt"

	"github.com/agentstation/mcpsync/pkg/store"
	pkgsync "github.com/agentstation/mcpsync/pkg/sync"
)

// Report is the outcome of Client.Sync.
type Report struct {
	Result *pkgsync.Result `json:"result" yaml:"result"`
	Before store.Counts    `json:"before" yaml:"before"`
	After  store.Counts    `json:"after" yaml:"after"`

	// Counted is false when the tables could not be counted after the run.
	Counted bool `json:"counted" yaml:"counted"`
}

// Success reports whether the run completed.
func (r *Report) Success() bool {
	return r.Result != nil && r.Result.Success
}

// Message returns the run message.
func (r *Report) Message() string {
	if r.Result == nil {
		return ""
	}
	return r.Result.Message
}

// Stats returns the run counters.
func (r *Report) Stats() pkgsync.Stats {
	if r.Result == nil {
		return pkgsync.Stats{}
	}
	return r.Result.Stats
}

// Changes returns the per-table row count change, servers first. It is
// empty when the tables were not counted after the run.
func (r *Report) Changes() []TableChange {
	if !r.Counted {
		return nil
	}
	return []TableChange{
		{Table: store.TableServers, Before: r.Before.Servers, After: r.After.Servers},
		{Table: store.TableInstallInstructions, Before: r.Before.InstallInstructions, After: r.After.InstallInstructions},
	}
}

// TableChange is the row count of one table before and after a run.
type TableChange struct {
	Table  string `json:"table" yaml:"table"`
	Before int    `json:"before" yaml:"before"`
	After  int    `json:"after" yaml:"after"`
}

// Diff returns After minus Before.
func (c TableChange) Diff() int {
	return c.After - c.Before
}

// String renders the change as "servers: 10 → 12 (+2 new records)".
func (c TableChange) String() string {
	diff := c.Diff()
	switch {
	case diff > 0:
		return fmt.Sprintf("%s: %d → %d (+%d new records)", c.Table, c.Before, c.After, diff)
	case diff < 0:
		return fmt.Sprintf("%s: %d → %d (%d records removed)", c.Table, c.Before, c.After, diff)
	default:
		return fmt.Sprintf("%s: %d → %d (no change)", c.Table, c.Before, c.After)
	}
}
