// Package store defines the local authoritative store consumed by the
// reconciliation engine. Concrete adapters live in internal/store.
package store

import (
	"context"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/constants"
)

// Tables that Count accepts.
const (
	TableServers             = constants.TableServers
	TableInstallInstructions = constants.TableInstallInstructions
)

// Store is the persistence surface of the reconciliation engine.
type Store interface {
	// FindByID returns the record with the given identifier, or nil and
	// no error when it does not exist.
	FindByID(ctx context.Context, id string) (*catalog.Record, error)

	// Insert writes a new record and returns it as stored. A nil record
	// with no error means the write was not applied.
	Insert(ctx context.Context, rec catalog.Record) (*catalog.Record, error)

	// Update overwrites the mutable fields of an existing record. A nil
	// record with no error means no row matched.
	Update(ctx context.Context, id string, fields catalog.RecordFields) (*catalog.Record, error)

	// DeleteInstructions removes every install instruction owned by
	// serverID and returns how many were removed.
	DeleteInstructions(ctx context.Context, serverID string) (int, error)

	// InsertInstruction writes one install instruction.
	InsertInstruction(ctx context.Context, ins catalog.InstallInstruction) error

	// Instructions returns the instructions owned by serverID ordered by
	// sort order.
	Instructions(ctx context.Context, serverID string) ([]catalog.InstallInstruction, error)

	// Count returns the number of rows in one of the known tables.
	Count(ctx context.Context, table string) (int, error)

	// InTx runs fn inside a transaction scope. Every write made through
	// the Store handed to fn is committed when fn returns nil and rolled
	// back otherwise.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases the underlying resources.
	Close() error
}

// Counts holds the row counts of both tables.
type Counts struct {
	Servers             int `json:"servers" yaml:"servers"`
	InstallInstructions int `json:"install_instructions" yaml:"install_instructions"`
}

// CountAll returns the row counts of both tables.
func CountAll(ctx context.Context, st Store) (Counts, error) {
	servers, err := st.Count(ctx, TableServers)
	if err != nil {
		return Counts{}, err
	}
	instructions, err := st.Count(ctx, TableInstallInstructions)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Servers: servers, InstallInstructions: instructions}, nil
}

// Tables returns the known table names.
func Tables() []string {
	return []string{TableServers, TableInstallInstructions}
}

// IsKnownTable reports whether table is accepted by Count.
func IsKnownTable(table string) bool {
	return table == TableServers || table == TableInstallInstructions
}
