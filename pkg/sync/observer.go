package sync

import "github.com/agentstation/mcpsync/pkg/reconcile"

// Observer receives run events. Implementations must not block.
type Observer interface {
	PageFetched(page, entries int)
	EntryApplied(outcome reconcile.Outcome)
	EntryFailed(name string, err error)
	RunFinished(result *Result)
}

type observers []Observer

func (obs observers) pageFetched(page, entries int) {
	for _, o := range obs {
		o.PageFetched(page, entries)
	}
}

func (obs observers) entryApplied(outcome reconcile.Outcome) {
	for _, o := range obs {
		o.EntryApplied(outcome)
	}
}

func (obs observers) entryFailed(name string, err error) {
	for _, o := range obs {
		o.EntryFailed(name, err)
	}
}

func (obs observers) runFinished(result *Result) {
	for _, o := range obs {
		o.RunFinished(result)
	}
}
