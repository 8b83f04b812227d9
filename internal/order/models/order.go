package models

import (
	"time"

	id "order-gateway/pkg/domain"
)

// FileRef is a stable document identifier handed back by the object-storage
// collaborator. The engine never resolves it.
type FileRef struct {
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`
}

// HistoryEntry records one accepted transition. Entries are append-only:
// past entries are never edited or removed. Seq is assigned by the
// persistence layer, not by the state machine.
type HistoryEntry struct {
	Seq   int       `json:"seq"`
	From  State     `json:"from"`
	To    State     `json:"to"`
	Actor string    `json:"actor"`
	Note  string    `json:"note,omitempty"`
	At    time.Time `json:"at"`
}

// Order is an activation order created from a validated submission. It is
// mutated only through the workflow's Apply; nothing else writes State or
// History. Orders are never physically deleted, only transitioned to a
// terminal state.
type Order struct {
	ID         id.OrderID         `json:"id"`
	TemplateID id.TemplateID      `json:"template_id"`
	State      State              `json:"state"`
	Fields     map[string]Value   `json:"fields"`
	Documents  map[string]FileRef `json:"documents"`
	History    []HistoryEntry     `json:"history"`

	// Denormalized display fields for back-office lists.
	OfferTitle string        `json:"offer_title"`
	OperatorID id.OperatorID `json:"operator_id"`

	// Version backs the storage-level optimistic lock. The engine computes
	// transitions on a snapshot; the store refuses the write when the row
	// has moved on.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy so stores can hand out snapshots without
// aliasing internal state.
func (o *Order) Clone() *Order {
	dup := *o
	dup.Fields = make(map[string]Value, len(o.Fields))
	for k, v := range o.Fields {
		dup.Fields[k] = v
	}
	dup.Documents = make(map[string]FileRef, len(o.Documents))
	for k, v := range o.Documents {
		dup.Documents[k] = v
	}
	dup.History = make([]HistoryEntry, len(o.History))
	copy(dup.History, o.History)
	return &dup
}
