package handler

import (
	"strings"

	"order-gateway/internal/order/models"
	id "order-gateway/pkg/domain"
	dErrors "order-gateway/pkg/domain-errors"
)

// SubmitOrderRequest is the HTTP request body for POST /orders.
type SubmitOrderRequest struct {
	TemplateID string                 `json:"template_id"`
	Fields     map[string]string      `json:"fields"`
	Documents  map[string]DocumentRef `json:"documents"`
}

// DocumentRef references an already uploaded file.
type DocumentRef struct {
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`
}

// Validate normalizes and validates the submission envelope. Field-level
// content is the validation engine's job; this only rejects requests that
// cannot even be routed to a template.
func (r *SubmitOrderRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.TemplateID = strings.TrimSpace(r.TemplateID)
	if r.TemplateID == "" {
		return dErrors.New(dErrors.CodeValidation, "template_id is required")
	}
	for slot, doc := range r.Documents {
		if strings.TrimSpace(doc.Key) == "" {
			return dErrors.New(dErrors.CodeValidation, "documents."+slot+".key is required")
		}
	}
	return nil
}

// ParsedTemplateID returns the validated template id.
func (r *SubmitOrderRequest) ParsedTemplateID() id.TemplateID {
	return id.TemplateID(r.TemplateID)
}

// ParsedDocuments converts the document references to the domain form.
func (r *SubmitOrderRequest) ParsedDocuments() map[string]models.FileRef {
	if len(r.Documents) == 0 {
		return nil
	}
	out := make(map[string]models.FileRef, len(r.Documents))
	for slot, doc := range r.Documents {
		out[slot] = models.FileRef{Key: doc.Key, MimeType: doc.MimeType}
	}
	return out
}

// TransitionRequest is the HTTP request body for POST /orders/{id}/transitions.
type TransitionRequest struct {
	ToState int    `json:"to_state"`
	Note    string `json:"note"`
}

// Validate checks the target state names a known lifecycle state. Whether
// the transition is legal for this order is decided by the workflow tables.
func (r *TransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if !models.State(r.ToState).Known() {
		return dErrors.New(dErrors.CodeValidation, "to_state is not a known state")
	}
	r.Note = strings.TrimSpace(r.Note)
	return nil
}

// ParsedState returns the validated target state.
func (r *TransitionRequest) ParsedState() models.State {
	return models.State(r.ToState)
}
