package mcpsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/mcpsync/pkg/logging"
	"github.com/agentstation/mcpsync/pkg/reconcile"
)

// ServerHook is called with the outcome of one applied directory entry
type ServerHook func(applied reconcile.Applied)

// hooks manages event callbacks for store changes
type hooks struct {
	mu        sync.RWMutex
	onAdded   []ServerHook
	onUpdated []ServerHook
	onSkipped []ServerHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnServerAdded registers a callback for when servers are inserted
func (h *hooks) OnServerAdded(fn ServerHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAdded = append(h.onAdded, fn)
}

// OnServerUpdated registers a callback for when servers are updated
func (h *hooks) OnServerUpdated(fn ServerHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUpdated = append(h.onUpdated, fn)
}

// OnServerSkipped registers a callback for when a server write is not applied
func (h *hooks) OnServerSkipped(fn ServerHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSkipped = append(h.onSkipped, fn)
}

// trigger calls the hooks registered for the outcome of applied. The entry
// is already committed, so a panicking hook is logged and never changes
// how the entry is counted.
func (h *hooks) trigger(ctx context.Context, applied reconcile.Applied) {
	h.mu.RLock()
	var fns []ServerHook
	switch applied.Outcome {
	case reconcile.OutcomeInserted:
		fns = h.onAdded
	case reconcile.OutcomeUpdated:
		fns = h.onUpdated
	case reconcile.OutcomeSkipped:
		fns = h.onSkipped
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		callHook(ctx, fn, applied)
	}
}

func callHook(ctx context.Context, fn ServerHook, applied reconcile.Applied) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error().
				Str("server_id", applied.ID).
				Str("outcome", applied.Outcome.String()).
				Err(fmt.Errorf("panic: %v", r)).
				Msg("Server hook panicked")
		}
	}()
	fn(applied)
}
