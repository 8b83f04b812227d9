package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"order-gateway/pkg/platform/audit"
)

// Store persists audit events to an outbox table. A relay (out of scope
// here) drains the outbox to whatever long-retention sink operations use;
// writing locally keeps the business transaction and its audit record in
// one database.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// payload is the JSON structure written to the outbox row.
type payload struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	OrderID    string `json:"order_id,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
	Actor      string `json:"actor,omitempty"`
	FromState  int    `json:"from_state,omitempty"`
	ToState    int    `json:"to_state,omitempty"`
	Note       string `json:"note,omitempty"`
	Reason     string `json:"reason,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Publish writes one audit event to the outbox.
func (s *Store) Publish(event audit.Event) error {
	eventID := uuid.New()
	body, err := json.Marshal(payload{
		ID:         eventID.String(),
		Action:     string(event.Action),
		OrderID:    event.OrderID.String(),
		TemplateID: event.TemplateID.String(),
		Actor:      event.Actor,
		FromState:  event.FromState,
		ToState:    event.ToState,
		Note:       event.Note,
		Reason:     event.Reason,
		RequestID:  event.RequestID,
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO audit_outbox (id, action, payload, created_at) VALUES ($1, $2, $3, $4)`,
		eventID, string(event.Action), body, event.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit outbox row: %w", err)
	}
	return nil
}
