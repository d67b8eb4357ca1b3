// Package memory provides an in-process store.Store used by tests and by
// the CLI when no database is configured.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/store"
)

// Option is a function that configures a Store.
type Option func(*state)

// WithRecords preloads the servers table.
func WithRecords(records ...catalog.Record) Option {
	return func(s *state) {
		for _, r := range records {
			s.servers[r.ID] = r
		}
	}
}

// WithInstructions preloads the install instructions table.
func WithInstructions(instructions ...catalog.InstallInstruction) Option {
	return func(s *state) {
		for _, ins := range instructions {
			s.instructions[ins.ServerID] = append(s.instructions[ins.ServerID], ins)
		}
	}
}

type state struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	servers      map[string]catalog.Record
	instructions map[string][]catalog.InstallInstruction
}

// Store is a concurrent safe in-memory store. Transactions snapshot both
// tables and restore the snapshot on failure.
type Store struct {
	state *state
	inTx  bool
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &state{
		servers:      make(map[string]catalog.Record),
		instructions: make(map[string][]catalog.InstallInstruction),
	}
	for _, opt := range opts {
		opt(s)
	}
	return &Store{state: s}
}

// FindByID implements store.Store.
func (m *Store) FindByID(ctx context.Context, id string) (*catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	rec, ok := m.state.servers[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Insert implements store.Store.
func (m *Store) Insert(ctx context.Context, rec catalog.Record) (*catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, errors.NewValidationError("id", rec.ID, "record id is required")
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, exists := m.state.servers[rec.ID]; exists {
		return nil, errors.NewResourceError("insert", "server", rec.ID, fmt.Errorf("duplicate key"))
	}
	m.state.servers[rec.ID] = rec
	return &rec, nil
}

// Update implements store.Store.
func (m *Store) Update(ctx context.Context, id string, fields catalog.RecordFields) (*catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	rec, ok := m.state.servers[id]
	if !ok {
		return nil, nil
	}
	rec.Apply(fields)
	m.state.servers[id] = rec
	return &rec, nil
}

// DeleteInstructions implements store.Store.
func (m *Store) DeleteInstructions(ctx context.Context, serverID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	n := len(m.state.instructions[serverID])
	delete(m.state.instructions, serverID)
	return n, nil
}

// InsertInstruction implements store.Store.
func (m *Store) InsertInstruction(ctx context.Context, ins catalog.InstallInstruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.servers[ins.ServerID]; !ok {
		return errors.NewResourceError("insert", "install instruction", ins.ServerID,
			errors.NewNotFoundError("server", ins.ServerID))
	}
	m.state.instructions[ins.ServerID] = append(m.state.instructions[ins.ServerID], ins)
	return nil
}

// Instructions implements store.Store.
func (m *Store) Instructions(ctx context.Context, serverID string) ([]catalog.InstallInstruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	out := slices.Clone(m.state.instructions[serverID])
	slices.SortStableFunc(out, func(a, b catalog.InstallInstruction) int {
		return a.SortOrder - b.SortOrder
	})
	return out, nil
}

// Count implements store.Store.
func (m *Store) Count(ctx context.Context, table string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	switch table {
	case store.TableServers:
		return len(m.state.servers), nil
	case store.TableInstallInstructions:
		n := 0
		for _, list := range m.state.instructions {
			n += len(list)
		}
		return n, nil
	default:
		return 0, errors.NewValidationError("table", table, "unknown table")
	}
}

// Records returns a copy of every stored record, ordered by ID.
func (m *Store) Records() []catalog.Record {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(m.state.servers))
	out := make([]catalog.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.state.servers[id])
	}
	return out
}

// InTx implements store.Store. Nested calls join the outer transaction.
func (m *Store) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if m.inTx {
		return fn(m)
	}

	m.state.txMu.Lock()
	defer m.state.txMu.Unlock()

	servers, instructions := m.snapshot()
	committed := false
	defer func() {
		if !committed {
			m.restore(servers, instructions)
		}
	}()

	if err := fn(&Store{state: m.state, inTx: true}); err != nil {
		return err
	}
	committed = true
	return nil
}

// Close implements store.Store.
func (m *Store) Close() error {
	return nil
}

func (m *Store) snapshot() (map[string]catalog.Record, map[string][]catalog.InstallInstruction) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	instructions := make(map[string][]catalog.InstallInstruction, len(m.state.instructions))
	for id, list := range m.state.instructions {
		instructions[id] = slices.Clone(list)
	}
	return maps.Clone(m.state.servers), instructions
}

func (m *Store) restore(servers map[string]catalog.Record, instructions map[string][]catalog.InstallInstruction) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	m.state.servers = servers
	m.state.instructions = instructions
}
