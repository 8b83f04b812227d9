// Package workflow implements the per-template order state machine.
// Transition tables are data, not code branches: each activation template
// points at a Table, and legality, mandatory notes, and notification
// side-effects are all read off the matched Rule. The package is pure; it
// computes decisions over order snapshots and never performs I/O.
package workflow

import (
	"order-gateway/internal/order/models"
)

// TableID names a transition table. Several templates may share one table;
// most offer categories declare a bespoke one.
type TableID string

const (
	TableGeneric     TableID = "generic"
	TableMobile      TableID = "mobile"
	TableFiber       TableID = "fiber"
	TableElectricity TableID = "electricity"
	TableGas         TableID = "gas"
)

// Rule is one legal transition. A nil From set means "any non-terminal
// state". RequiresNote makes a back-office note mandatory for the
// transition; Notification, when set, is the notification template the
// caller must dispatch after persisting the new state.
type Rule struct {
	From         []models.State
	To           models.State
	RequiresNote bool
	Notification string
}

// Table is the full transition set for one template family. The set of
// states reachable from any current state is exactly what the rules say;
// there is no hidden default transition.
type Table struct {
	ID    TableID
	Rules []Rule
}

func (r Rule) allowsFrom(s models.State) bool {
	if r.From == nil {
		return !s.Terminal()
	}
	for _, from := range r.From {
		if from == s {
			return true
		}
	}
	return false
}

func (t Table) find(current, requested models.State) (Rule, bool) {
	for _, rule := range t.Rules {
		if rule.To == requested && rule.allowsFrom(current) {
			return rule, true
		}
	}
	return Rule{}, false
}

// ReachableFrom lists the target states the table allows from the given
// state, in declaration order. The cancel override is not included; it is
// not part of any table.
func (t Table) ReachableFrom(current models.State) []models.State {
	var out []models.State
	for _, rule := range t.Rules {
		if rule.allowsFrom(current) {
			out = append(out, rule.To)
		}
	}
	return out
}
