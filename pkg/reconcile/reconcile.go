package reconcile

import (
	"context"
	"fmt"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/store"
)

// Outcome is what Reconcile did with a record.
type Outcome string

// Reconcile outcomes.
const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	return string(o)
}

// Result reports the outcome for one record.
type Result struct {
	ID      string
	Outcome Outcome
	// Record is the stored row; nil when skipped.
	Record *catalog.Record
	// Message explains a skipped outcome.
	Message string
}

// Reconcile inserts rec when no record with its ID exists and updates the
// mutable fields otherwise. An update never touches CreatedAt. A write that
// reports no row yields OutcomeSkipped with a diagnostic and no error.
func Reconcile(ctx context.Context, st store.Store, rec catalog.Record) (Result, error) {
	existing, err := st.FindByID(ctx, rec.ID)
	if err != nil {
		return Result{ID: rec.ID}, err
	}

	if existing == nil {
		stored, err := st.Insert(ctx, rec)
		if err != nil {
			return Result{ID: rec.ID}, err
		}
		if stored == nil {
			return skipped(rec.ID, "insert"), nil
		}
		return Result{ID: rec.ID, Outcome: OutcomeInserted, Record: stored}, nil
	}

	stored, err := st.Update(ctx, rec.ID, rec.Fields())
	if err != nil {
		return Result{ID: rec.ID}, err
	}
	if stored == nil {
		return skipped(rec.ID, "update"), nil
	}
	return Result{ID: rec.ID, Outcome: OutcomeUpdated, Record: stored}, nil
}

func skipped(id, op string) Result {
	return Result{
		ID:      id,
		Outcome: OutcomeSkipped,
		Message: fmt.Sprintf("Failed to %s server %s", op, id),
	}
}
