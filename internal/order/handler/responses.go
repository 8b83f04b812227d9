package handler

import (
	"time"

	"order-gateway/internal/order/models"
)

// OrderResponse is the HTTP representation of an order.
type OrderResponse struct {
	ID         string                 `json:"id"`
	TemplateID string                 `json:"template_id"`
	State      int                    `json:"state"`
	StateName  string                 `json:"state_name"`
	OfferTitle string                 `json:"offer_title"`
	OperatorID string                 `json:"operator_id"`
	Fields     map[string]string      `json:"fields"`
	Documents  map[string]DocumentRef `json:"documents,omitempty"`
	History    []HistoryEntryResponse `json:"history"`
	Version    int                    `json:"version"`
	CreatedAt  time.Time              `json:"created_at"`
}

// HistoryEntryResponse is one transition in an order's history.
type HistoryEntryResponse struct {
	Seq       int       `json:"seq"`
	FromState int       `json:"from_state"`
	ToState   int       `json:"to_state"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"at"`
}

// FromOrder converts a domain order to its HTTP representation. Field values
// are rendered in display form; the typed variants stay internal.
func FromOrder(order *models.Order) *OrderResponse {
	fields := make(map[string]string, len(order.Fields))
	for key, value := range order.Fields {
		fields[key] = value.Display()
	}

	var documents map[string]DocumentRef
	if len(order.Documents) > 0 {
		documents = make(map[string]DocumentRef, len(order.Documents))
		for slot, ref := range order.Documents {
			documents[slot] = DocumentRef{Key: ref.Key, MimeType: ref.MimeType}
		}
	}

	history := make([]HistoryEntryResponse, 0, len(order.History))
	for _, entry := range order.History {
		history = append(history, HistoryEntryResponse{
			Seq:       entry.Seq,
			FromState: int(entry.From),
			ToState:   int(entry.To),
			Actor:     entry.Actor,
			Note:      entry.Note,
			At:        entry.At,
		})
	}

	return &OrderResponse{
		ID:         order.ID.String(),
		TemplateID: order.TemplateID.String(),
		State:      int(order.State),
		StateName:  order.State.String(),
		OfferTitle: order.OfferTitle,
		OperatorID: order.OperatorID.String(),
		Fields:     fields,
		Documents:  documents,
		History:    history,
		Version:    order.Version,
		CreatedAt:  order.CreatedAt,
	}
}

// TransitionResponse reports an applied transition: the updated order and
// the notification template the matched rule triggered, if any.
type TransitionResponse struct {
	Order        *OrderResponse `json:"order"`
	Notification string         `json:"notification,omitempty"`
}

// ListResponse wraps a collection of orders.
type ListResponse struct {
	Orders []*OrderResponse `json:"orders"`
}

// FromOrders converts a list of domain orders.
func FromOrders(orders []*models.Order) *ListResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromOrder(order))
	}
	return &ListResponse{Orders: out}
}
