package reconcile_test

import (
	"context"
	"time"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/store"
)

var fixedNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func demoAuth() catalog.SourceEntry {
	return catalog.SourceEntry{
		Name:             "Demo Auth",
		ShortDescription: catalog.StringPtr("auth for apps"),
		SourceCodeURL:    catalog.StringPtr("https://github.com/acme/demo-auth"),
		PackageRegistry:  catalog.StringPtr("npm"),
		PackageName:      catalog.StringPtr("demo-auth"),
	}
}

// faultyStore wraps a store and injects failures.
type faultyStore struct {
	store.Store
	insertReturnsNil   bool
	updateReturnsNil   bool
	failInstructionsAt int // 1-based InsertInstruction call that fails; 0 never
	instructionCalls   *int
}

func newFaultyStore(inner store.Store) *faultyStore {
	return &faultyStore{Store: inner, instructionCalls: new(int)}
}

func (f *faultyStore) Insert(ctx context.Context, rec catalog.Record) (*catalog.Record, error) {
	if f.insertReturnsNil {
		return nil, nil
	}
	return f.Store.Insert(ctx, rec)
}

func (f *faultyStore) Update(ctx context.Context, id string, fields catalog.RecordFields) (*catalog.Record, error) {
	if f.updateReturnsNil {
		return nil, nil
	}
	return f.Store.Update(ctx, id, fields)
}

func (f *faultyStore) InsertInstruction(ctx context.Context, ins catalog.InstallInstruction) error {
	*f.instructionCalls++
	if f.failInstructionsAt > 0 && *f.instructionCalls == f.failInstructionsAt {
		return errors.New("disk full")
	}
	return f.Store.InsertInstruction(ctx, ins)
}

func (f *faultyStore) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	return f.Store.InTx(ctx, func(tx store.Store) error {
		wrapped := *f
		wrapped.Store = tx
		return fn(&wrapped)
	})
}
