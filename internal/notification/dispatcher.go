// Package notification is the glue between the workflow engine and the
// customer messaging collaborator. The engine only ever names a
// notification template; this package owns handing that name (plus order
// context) to the dispatcher. Rendering and delivery are external.
package notification

import (
	"context"

	id "order-gateway/pkg/domain"
)

// Recipient roles the templates address.
const (
	RecipientCustomer = "customer"
	RecipientDealer   = "dealer"
)

// Request asks the dispatcher to send one notification.
type Request struct {
	Recipient  string            `json:"recipient"`
	TemplateID string            `json:"template_id"`
	OrderID    id.OrderID        `json:"order_id"`
	Context    map[string]string `json:"context,omitempty"`
}

// Dispatcher delivers notification requests to the messaging collaborator.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) error
}
