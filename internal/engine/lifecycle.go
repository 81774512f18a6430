package engine

import (
	"fmt"

	"stock-reconciliation/internal/domain"
)

// Transitions lists, per status, the statuses it may move to.
type Transitions map[domain.Status]map[domain.Status]bool

var allStatuses = []domain.Status{domain.StatusInProcess, domain.StatusCompleted, domain.StatusRejected}

// LooseTransitions lets any status be set from any other.
var LooseTransitions = Transitions{
	domain.StatusInProcess: {domain.StatusCompleted: true, domain.StatusRejected: true},
	domain.StatusCompleted: {domain.StatusInProcess: true, domain.StatusRejected: true},
	domain.StatusRejected:  {domain.StatusInProcess: true, domain.StatusCompleted: true},
}

// StrictTransitions only allows a closed consignment to be reopened, never
// moved straight to the other closed state.
var StrictTransitions = Transitions{
	domain.StatusInProcess: {domain.StatusCompleted: true, domain.StatusRejected: true},
	domain.StatusCompleted: {domain.StatusInProcess: true},
	domain.StatusRejected:  {domain.StatusInProcess: true},
}

// Lifecycle guards status changes with a transition table.
type Lifecycle struct {
	table Transitions
}

// NewLifecycle returns a lifecycle over table, or LooseTransitions when table is nil.
func NewLifecycle(table Transitions) *Lifecycle {
	if table == nil {
		table = LooseTransitions
	}
	return &Lifecycle{table: table}
}

// CanTransition reports whether from may move to to. Staying put is always allowed.
func (l *Lifecycle) CanTransition(from, to domain.Status) bool {
	if from == to {
		return true
	}
	return l.table[from][to]
}

// Allowed lists the statuses reachable from from, in a stable order.
func (l *Lifecycle) Allowed(from domain.Status) []domain.Status {
	out := make([]domain.Status, 0, len(allStatuses))
	for _, s := range allStatuses {
		if s != from && l.CanTransition(from, s) {
			out = append(out, s)
		}
	}
	return out
}

// Transition returns c moved to status to. Completing a consignment only
// ever happens through this call.
func (l *Lifecycle) Transition(c domain.Consignment, to domain.Status) (domain.Consignment, error) {
	if !to.IsValid() {
		return c, fmt.Errorf("%w: unknown status %q", domain.ErrTransitionNotAllowed, to)
	}
	if !l.CanTransition(c.Status, to) {
		return c, fmt.Errorf("%w: %s -> %s", domain.ErrTransitionNotAllowed, c.Status, to)
	}
	c.Status = to
	return c, nil
}
