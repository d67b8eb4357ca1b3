package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agentstation/mcpsync"
	"github.com/agentstation/mcpsync/internal/cmd/emoji"
	"github.com/agentstation/mcpsync/pkg/store"
)

// SyncSummary writes the human-readable summary of a sync run: the
// outcome line with elapsed seconds, the counters, the table changes and
// at most limit entry errors.
func SyncSummary(w io.Writer, report *mcpsync.Report, limit int) error {
	result := report.Result
	seconds := result.Duration.Seconds()

	p := &printer{w: w}
	switch {
	case result.Interrupted:
		p.printf("%s Sync operation interrupted after %.2f seconds\n", emoji.Stop, seconds)
	case result.Success:
		p.printf("%s Sync operation completed in %.2f seconds\n", emoji.Success, seconds)
	default:
		p.printf("%s Sync operation failed after %.2f seconds\n", emoji.Error, seconds)
		p.printf("  %s\n", result.Message)
	}

	stats := result.Stats
	p.printf("\nSync Statistics:\n")
	p.printf("  %s Total servers processed: %d\n", emoji.Bullet, stats.Total)
	p.printf("  %s New servers added: %d\n", emoji.Bullet, stats.Added)
	p.printf("  %s Existing servers updated: %d\n", emoji.Bullet, stats.Updated)
	p.printf("  %s Skipped servers: %d\n", emoji.Bullet, stats.Skipped)

	if changes := report.Changes(); len(changes) > 0 {
		p.printf("\nTable Changes:\n")
		for _, c := range changes {
			p.printf("  %s %s\n", emoji.Bullet, c)
		}
	}

	if len(stats.Errors) > 0 {
		shown, more := stats.Display(limit)
		p.printf("\n%s Errors (%d):\n", emoji.Warning, len(stats.Errors))
		for i, msg := range shown {
			p.printf("  %d. %s\n", i+1, msg)
		}
		if more > 0 {
			p.printf("  ... and %d more errors\n", more)
		}
	}

	return p.err
}

// FormatSync writes report in format. Table format is the summary.
func FormatSync(w io.Writer, format Format, report *mcpsync.Report, limit int) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, report)
	default:
		return SyncSummary(w, report, limit)
	}
}

// CountsToTableData converts table counts to a two-column table.
func CountsToTableData(counts store.Counts) Data {
	return Data{
		Headers: []string{"Table", "Rows"},
		Rows: [][]string{
			{store.TableServers, strconv.Itoa(counts.Servers)},
			{store.TableInstallInstructions, strconv.Itoa(counts.InstallInstructions)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// FormatStatus writes the table counts in format.
func FormatStatus(w io.Writer, format Format, counts store.Counts) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, counts)
	default:
		return NewFormatter(FormatTable).Format(w, CountsToTableData(counts))
	}
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
