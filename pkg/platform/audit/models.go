// Package audit captures key actions from the order workflow so back-office
// operations stay reconstructible. Events are emitted from domain logic and
// kept transport-agnostic so stores and sinks can fan out.
package audit

import (
	"time"

	id "order-gateway/pkg/domain"
)

// Action names an auditable event.
type Action string

const (
	ActionOrderSubmitted     Action = "order_submitted"
	ActionOrderTransitioned  Action = "order_transitioned"
	ActionTransitionRejected Action = "transition_rejected"
	ActionNotificationQueued Action = "notification_queued"
)

// Event is one audit record. FromState/ToState are the integer lifecycle
// states; they are zero for non-transition events.
type Event struct {
	Action     Action
	OrderID    id.OrderID
	TemplateID id.TemplateID
	Actor      string
	FromState  int
	ToState    int
	Note       string
	Reason     string
	RequestID  string
	Timestamp  time.Time
}

// Publisher accepts events for durable recording. Implementations must not
// block domain logic on sink failures; the service logs and continues when
// Publish errors.
type Publisher interface {
	Publish(event Event) error
}
