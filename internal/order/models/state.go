package models

import "fmt"

// State is an order lifecycle status. Values are wire-stable: they are
// persisted and exposed over HTTP as integers, so existing values must never
// be renumbered.
type State int

const (
	StateOpen                State = 1
	StateProcessing          State = 2
	StateOnHold              State = 3
	StateAwaitingIntegration State = 4
	StateActivated           State = 5
	StateRejected            State = 6
	StateCancelled           State = 7
	StateTicketOpen          State = 8
	StateResetInProgress     State = 9
	StateResetExecuted       State = 10
	StateClientNotAcquirable State = 11
)

var stateNames = map[State]string{
	StateOpen:                "OPEN",
	StateProcessing:          "PROCESSING",
	StateOnHold:              "ON_HOLD",
	StateAwaitingIntegration: "AWAITING_INTEGRATION",
	StateActivated:           "ACTIVATED",
	StateRejected:            "REJECTED",
	StateCancelled:           "CANCELLED",
	StateTicketOpen:          "TICKET_OPEN",
	StateResetInProgress:     "RESET_IN_PROGRESS",
	StateResetExecuted:       "RESET_EXECUTED",
	StateClientNotAcquirable: "CLIENT_NOT_ACQUIRABLE",
}

// terminal states have no outgoing transitions anywhere, including the
// cancel override.
var terminalStates = map[State]bool{
	StateActivated:           true,
	StateRejected:            true,
	StateCancelled:           true,
	StateResetExecuted:       true,
	StateClientNotAcquirable: true,
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATE(%d)", int(s))
}

// Known reports whether s is a declared lifecycle state.
func (s State) Known() bool {
	_, ok := stateNames[s]
	return ok
}

// Terminal reports whether s admits no further transitions.
func (s State) Terminal() bool {
	return terminalStates[s]
}
