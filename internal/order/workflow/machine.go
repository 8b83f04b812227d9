package workflow

import (
	"fmt"
	"strings"
	"time"

	"order-gateway/internal/order/models"
	dErrors "order-gateway/pkg/domain-errors"
)

// Decision is the outcome of a legality check: the state to set and the
// notification template (if any) the caller must dispatch after persisting.
type Decision struct {
	From         models.State
	To           models.State
	Note         string
	Notification string
}

// Decide checks a requested transition against a table. The template
// independent cancel override is evaluated first when cancellation is
// explicitly requested: it is legal from any non-terminal state, always
// requires a note, and always triggers the cancellation notification. It is
// never present in per-template tables.
func Decide(table Table, current, requested models.State, note string) (Decision, error) {
	if !requested.Known() {
		return Decision{}, dErrors.New(dErrors.CodeIllegalTransition,
			fmt.Sprintf("unknown target state %d", int(requested)))
	}

	if requested == models.StateCancelled {
		if current.Terminal() {
			return Decision{}, dErrors.New(dErrors.CodeIllegalTransition,
				fmt.Sprintf("cannot cancel an order in terminal state %s", current))
		}
		if strings.TrimSpace(note) == "" {
			return Decision{}, dErrors.New(dErrors.CodeNoteRequired,
				"a note is mandatory when cancelling an order")
		}
		return Decision{From: current, To: models.StateCancelled, Note: note, Notification: NotifyCancelled}, nil
	}

	rule, ok := table.find(current, requested)
	if !ok {
		return Decision{}, dErrors.New(dErrors.CodeIllegalTransition,
			fmt.Sprintf("transition %s -> %s is not allowed by table %q", current, requested, table.ID))
	}
	if rule.RequiresNote && strings.TrimSpace(note) == "" {
		return Decision{}, dErrors.New(dErrors.CodeNoteRequired,
			fmt.Sprintf("a note is mandatory for transition %s -> %s", current, requested))
	}
	return Decision{From: current, To: requested, Note: note, Notification: rule.Notification}, nil
}

// Apply mutates an order snapshot with an accepted decision: appends exactly
// one history entry and sets the new state. On any Decide failure the order
// is untouched, so callers can return the snapshot as-is.
func Apply(order *models.Order, d Decision, actor string, now time.Time) models.HistoryEntry {
	entry := models.HistoryEntry{
		From:  order.State,
		To:    d.To,
		Actor: actor,
		Note:  d.Note,
		At:    now,
	}
	order.History = append(order.History, entry)
	order.State = d.To
	return entry
}

// ApplyTransition is the one-call form used by the service: resolve
// legality, then mutate the snapshot. It returns the appended history entry
// and the notification template id ("" when none).
func ApplyTransition(table Table, order *models.Order, requested models.State, note, actor string, now time.Time) (models.HistoryEntry, string, error) {
	decision, err := Decide(table, order.State, requested, note)
	if err != nil {
		return models.HistoryEntry{}, "", err
	}
	entry := Apply(order, decision, actor, now)
	return entry, decision.Notification, nil
}
