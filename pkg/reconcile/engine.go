package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/identity"
	"github.com/agentstation/mcpsync/pkg/logging"
	"github.com/agentstation/mcpsync/pkg/store"
)

// Stages reported in errors.EntryError.
const (
	StageDerive       = "derive"
	StageReconcile    = "reconcile"
	StageInstructions = "instructions"
)

// Applied reports what Engine.Apply did with one entry.
type Applied struct {
	ID           string
	Outcome      Outcome
	Instructions []catalog.InstallInstruction
	Message      string
}

// Engine applies single directory entries to a store.
type Engine struct {
	store store.Store
	now   func() time.Time
	log   *zerolog.Logger
}

type options struct {
	now    func() time.Time
	logger *zerolog.Logger
}

// Option is a function that configures an Engine.
type Option func(*options) error

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// NewEngine creates an Engine writing to st.
func NewEngine(st store.Store, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "cannot be nil"}
	}

	o := &options{now: time.Now}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return &Engine{store: st, now: o.now, log: o.logger}, nil
}

// Store returns the store the engine writes to.
func (e *Engine) Store() store.Store {
	return e.store
}

// Apply derives the identity of entry, classifies it and, in one store
// transaction, reconciles the record and replaces its install
// instructions. Errors are wrapped in *errors.EntryError naming the stage.
// A skipped outcome leaves instructions untouched.
func (e *Engine) Apply(ctx context.Context, entry catalog.SourceEntry) (Applied, error) {
	id, err := identity.Derive(entry.Name, entry.SourceCodeURL)
	if err != nil {
		return Applied{}, errors.NewEntryError(entry.Name, StageDerive, err)
	}

	logger := e.logger(ctx).With().Str("server_id", id).Logger()
	rec := BuildRecord(entry, id, e.now())
	applied := Applied{ID: id}

	err = e.store.InTx(ctx, func(tx store.Store) error {
		res, err := Reconcile(ctx, tx, rec)
		if err != nil {
			return errors.NewEntryError(entry.Name, StageReconcile, err)
		}
		applied.Outcome = res.Outcome
		applied.Message = res.Message
		if res.Outcome == OutcomeSkipped {
			return nil
		}

		instructions, err := SyncInstructions(ctx, tx, id, entry)
		if err != nil {
			return errors.NewEntryError(entry.Name, StageInstructions, err)
		}
		applied.Instructions = instructions
		return nil
	})
	if err != nil {
		var entryErr *errors.EntryError
		if !errors.As(err, &entryErr) {
			err = errors.NewEntryError(entry.Name, StageReconcile, err)
		}
		return Applied{ID: id}, err
	}

	logger.Debug().
		Str("outcome", applied.Outcome.String()).
		Str("category", rec.Category.String()).
		Int("instructions", len(applied.Instructions)).
		Msg("Applied server")
	return applied, nil
}

func (e *Engine) logger(ctx context.Context) *zerolog.Logger {
	if e.log != nil {
		return e.log
	}
	return logging.FromContext(ctx)
}
