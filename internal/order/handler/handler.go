// Package handler wires the order endpoints to the order service. It owns
// request decoding and response shaping only; every business rule lives in
// the service and the workflow tables.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"order-gateway/internal/order/models"
	"order-gateway/internal/order/store"
	id "order-gateway/pkg/domain"
	dErrors "order-gateway/pkg/domain-errors"
	"order-gateway/pkg/platform/httputil"
	"order-gateway/pkg/requestcontext"
)

// Service defines the order operations the handler exposes.
type Service interface {
	Submit(ctx context.Context, templateID id.TemplateID, rawFields map[string]string, documents map[string]models.FileRef) (*models.Order, error)
	Get(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	List(ctx context.Context, filter store.ListFilter) ([]*models.Order, error)
	Transition(ctx context.Context, orderID id.OrderID, requested models.State, note string) (*models.Order, string, error)
}

// Handler wires order endpoints to the order service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an order handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts order endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/orders", h.HandleSubmit)
	r.Get("/orders", h.HandleList)
	r.Get("/orders/{orderID}", h.HandleGet)
	r.Post("/orders/{orderID}/transitions", h.HandleTransition)
}

// HandleSubmit handles POST /orders.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitOrderRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	order, err := h.service.Submit(ctx, req.ParsedTemplateID(), req.Fields, req.ParsedDocuments())
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "order submission failed",
				"request_id", requestID,
				"template_id", req.TemplateID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order submitted",
		"request_id", requestID,
		"order_id", order.ID.String(),
		"template_id", req.TemplateID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromOrder(order))
}

// HandleGet handles GET /orders/{orderID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID, err := id.ParseOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	order, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrder(order))
}

// HandleList handles GET /orders with optional state and template_id filters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	orders, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrders(orders))
}

// HandleTransition handles POST /orders/{orderID}/transitions.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	orderID, err := id.ParseOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	order, notification, err := h.service.Transition(ctx, orderID, req.ParsedState(), req.Note)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order transitioned",
		"request_id", requestID,
		"order_id", orderID.String(),
		"to_state", order.State.String(),
	)

	httputil.WriteJSON(w, http.StatusOK, &TransitionResponse{
		Order:        FromOrder(order),
		Notification: notification,
	})
}

func listFilterFromQuery(r *http.Request) (store.ListFilter, error) {
	var filter store.ListFilter

	if raw := r.URL.Query().Get("state"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !models.State(n).Known() {
			return store.ListFilter{}, dErrors.New(dErrors.CodeBadRequest, "state must be a known state number")
		}
		state := models.State(n)
		filter.State = &state
	}
	if raw := r.URL.Query().Get("template_id"); raw != "" {
		filter.TemplateID = id.TemplateID(raw)
	}
	return filter, nil
}
