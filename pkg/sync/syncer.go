package sync

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
	"github.com/agentstation/mcpsync/pkg/reconcile"
)

// Run messages.
const (
	MessageCompleted   = "MCP servers sync completed"
	MessageInterrupted = "MCP servers sync interrupted"
	MessageFailed      = "Sync process failed"
)

// Pager yields the pages of the remote directory in order.
type Pager interface {
	Pages(ctx context.Context) iter.Seq2[*catalog.Page, error]
}

// Applier applies one directory entry to the local store.
type Applier interface {
	Apply(ctx context.Context, entry catalog.SourceEntry) (reconcile.Applied, error)
}

// Syncer runs reconciliation passes. Pages and entries are processed
// strictly in order, one at a time.
type Syncer struct {
	pager   Pager
	applier Applier
	opts    *Options
}

// New creates a Syncer.
func New(pager Pager, applier Applier, opts ...Option) (*Syncer, error) {
	if pager == nil {
		return nil, &errors.ValidationError{Field: "pager", Message: "cannot be nil"}
	}
	if applier == nil {
		return nil, &errors.ValidationError{Field: "applier", Message: "cannot be nil"}
	}

	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	return &Syncer{pager: pager, applier: applier, opts: options}, nil
}

// Run performs one reconciliation pass. Entry failures are recorded in the
// stats and never abort the run; a page failure stops it with Success false
// and the stats gathered so far. Cancellation is honored before each page
// and each entry and reported as Interrupted.
func (s *Syncer) Run(ctx context.Context) *Result {
	runID := s.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	if s.opts.Logger != nil {
		ctx = logging.WithLogger(ctx, s.opts.Logger)
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	obs := observers(s.opts.Observers)
	start := s.opts.Now()
	result := &Result{RunID: runID, StartedAt: start}
	defer func() {
		result.Duration = s.opts.Now().Sub(start)
		obs.runFinished(result)
	}()

	logger.Info().Msg("Starting MCP servers sync")

	for page, err := range s.pager.Pages(ctx) {
		if err != nil {
			if ctx.Err() != nil {
				s.stop(ctx, result)
				return result
			}
			s.fail(ctx, result, err)
			return result
		}

		result.Pages++
		obs.pageFetched(result.Pages, len(page.Servers))
		logger.Debug().Int("page", result.Pages).Int("entries", len(page.Servers)).Msg("Processing page")

		for i := range page.Servers {
			if ctx.Err() != nil {
				s.stop(ctx, result)
				return result
			}
			if !s.processEntry(ctx, page.Servers[i], &result.Stats) {
				s.stop(ctx, result)
				return result
			}

			if result.Stats.Total%s.opts.ProgressInterval == 0 {
				logger.Info().
					Int("total", result.Stats.Total).
					Int("added", result.Stats.Added).
					Int("updated", result.Stats.Updated).
					Int("skipped", result.Stats.Skipped).
					Msgf("Processed %d servers", result.Stats.Total)
			}
		}
	}

	result.Success = true
	result.Message = MessageCompleted
	logger.Info().
		Int("pages", result.Pages).
		Int("errors", result.Stats.ErrorCount).
		Msg(result.Stats.String())
	return result
}

// processEntry applies one entry and counts its outcome. It reports false
// when cancellation rolled the entry back; that entry is left uncounted.
func (s *Syncer) processEntry(ctx context.Context, entry catalog.SourceEntry, stats *Stats) bool {
	obs := observers(s.opts.Observers)

	applied, err := s.applySafely(ctx, entry)
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return false
	}

	stats.Total++
	if err != nil {
		stats.ErrorCount++
		stats.Skipped++
		msg := fmt.Sprintf("Error processing server %s: %v", entry.Name, entryCause(err))
		stats.Errors = append(stats.Errors, msg)
		logging.FromContext(ctx).Warn().Err(err).Str("server", entry.Name).Msg("Error processing server")
		obs.entryFailed(entry.Name, err)
		return true
	}

	switch applied.Outcome {
	case reconcile.OutcomeInserted:
		stats.Added++
	case reconcile.OutcomeUpdated:
		stats.Updated++
	case reconcile.OutcomeSkipped:
		stats.Skipped++
		stats.Errors = append(stats.Errors, applied.Message)
		logging.FromContext(ctx).Warn().Str("server_id", applied.ID).Msg(applied.Message)
	}
	obs.entryApplied(applied.Outcome)
	return true
}

// applySafely is the per-entry failure boundary: errors and panics from
// the applier are both returned as errors.
func (s *Syncer) applySafely(ctx context.Context, entry catalog.SourceEntry) (applied reconcile.Applied, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewEntryError(entry.Name, "", fmt.Errorf("panic: %v", r))
		}
	}()
	return s.applier.Apply(ctx, entry)
}

func (s *Syncer) fail(ctx context.Context, result *Result, err error) {
	result.Stats.ErrorCount++
	result.Stats.Errors = append(result.Stats.Errors, fmt.Sprintf("Error fetching page: %v", err))
	result.Success = false
	result.Message = fmt.Sprintf("%s: %v", MessageFailed, err)
	result.Err = err
	logging.FromContext(ctx).Error().Err(err).Int("pages", result.Pages).Msg("Error fetching page")
}

func (s *Syncer) stop(ctx context.Context, result *Result) {
	cause := ctx.Err()
	if errors.Is(cause, context.DeadlineExceeded) {
		s.fail(ctx, result, cause)
		return
	}
	result.Success = false
	result.Interrupted = true
	result.Message = MessageInterrupted
	result.Err = fmt.Errorf("%w: %w", errors.ErrCanceled, cause)
	logging.FromContext(ctx).Warn().Int("processed", result.Stats.Total).Msg("Sync interrupted")
}

// entryCause strips the EntryError wrapper so messages name the entry once.
func entryCause(err error) error {
	var entryErr *errors.EntryError
	if errors.As(err, &entryErr) && entryErr.Err != nil {
		return entryErr.Err
	}
	return err
}
