// Package handler exposes the template registry read-only, so portal
// frontends can render activation forms from the same descriptors the
// validation engine enforces.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"order-gateway/internal/template"
	id "order-gateway/pkg/domain"
	"order-gateway/pkg/platform/httputil"
)

// Handler serves template definitions from the registry.
type Handler struct {
	registry *template.Registry
}

// New constructs a template handler.
func New(registry *template.Registry) *Handler {
	return &Handler{registry: registry}
}

// Register mounts template endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/templates", h.HandleList)
	r.Get("/templates/{templateID}", h.HandleGet)
}

// ListResponse wraps the template collection.
type ListResponse struct {
	Templates []template.Definition `json:"templates"`
}

// HandleList handles GET /templates.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Templates: h.registry.List()})
}

// HandleGet handles GET /templates/{templateID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	def, err := h.registry.Get(id.TemplateID(chi.URLParam(r, "templateID")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, def)
}
