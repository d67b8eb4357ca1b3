// Package sync drives a full reconciliation pass: it walks every page of
// the remote directory, applies each entry through an isolated failure
// boundary and accumulates run statistics.
package sync

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/pkg/constants"
	"github.com/agentstation/mcpsync/pkg/errors"
)

// Options controls a Syncer run.
type Options struct {
	RunID            string          // Identifier attached to logs and metrics; generated when empty
	ProgressInterval int             // Emit a progress log every N entries
	Timeout          time.Duration   // Timeout for the whole run; zero means none
	Logger           *zerolog.Logger // Run logger; the context logger when nil
	Observers        []Observer      // Notified of run events
	Now              func() time.Time
}

// Apply applies the given options to the sync options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		ProgressInterval: constants.ProgressInterval,
		Now:              time.Now,
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (o *Options) Validate() error {
	if o.ProgressInterval <= 0 {
		return &errors.ValidationError{
			Field:   "ProgressInterval",
			Value:   o.ProgressInterval,
			Message: "progress interval must be positive",
		}
	}
	if o.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   o.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	if o.RunID != "" {
		if _, err := uuid.Parse(o.RunID); err != nil {
			return &errors.ValidationError{
				Field:   "RunID",
				Value:   o.RunID,
				Message: "run id must be a UUID",
			}
		}
	}
	return nil
}

// WithRunID sets the run identifier.
func WithRunID(id string) Option {
	return func(o *Options) {
		o.RunID = id
	}
}

// WithProgressInterval sets how many entries pass between progress logs.
func WithProgressInterval(n int) Option {
	return func(o *Options) {
		o.ProgressInterval = n
	}
}

// WithTimeout bounds the whole run.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithLogger sets the run logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithObserver adds an observer notified of run events.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		if obs != nil {
			o.Observers = append(o.Observers, obs)
		}
	}
}

// WithClock sets the time source used for run timing.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}
