package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"order-gateway/internal/notification"
	"order-gateway/internal/order/models"
	"order-gateway/internal/order/store"
	"order-gateway/internal/order/workflow"
	id "order-gateway/pkg/domain"
	dErrors "order-gateway/pkg/domain-errors"
	"order-gateway/pkg/platform/audit"
	"order-gateway/pkg/platform/sentinel"
	"order-gateway/pkg/requestcontext"
)

// Submit validates a raw submission against its template and persists a new
// order in the Open state. All field errors are returned at once; nothing is
// persisted on a rejected submission.
func (s *Service) Submit(ctx context.Context, templateID id.TemplateID, rawFields map[string]string, documents map[string]models.FileRef) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.Submit",
		trace.WithAttributes(attribute.String("template_id", templateID.String())))
	defer span.End()

	fields, err := s.engine.ValidateSubmission(ctx, templateID, rawFields, documents)
	if err != nil {
		if fieldErrs := dErrors.FieldsOf(err); len(fieldErrs) > 0 && s.metrics != nil {
			s.metrics.SubmissionsRejected.Inc()
			s.metrics.ValidationErrors.Observe(float64(len(fieldErrs)))
		}
		return nil, err
	}

	display, err := s.offers.Display(ctx, templateID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:         id.NewOrderID(),
		TemplateID: templateID,
		State:      models.StateOpen,
		Fields:     fields,
		Documents:  documents,
		OfferTitle: display.Title,
		OperatorID: display.OperatorID,
		CreatedAt:  requestcontext.Now(ctx),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "order already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist order")
	}

	s.publishAudit(ctx, audit.Event{
		Action:     audit.ActionOrderSubmitted,
		OrderID:    order.ID,
		TemplateID: templateID,
		ToState:    int(models.StateOpen),
	})
	if s.metrics != nil {
		s.metrics.SubmissionsAccepted.Inc()
	}
	s.logger.InfoContext(ctx, "order submitted",
		"order_id", order.ID.String(), "template_id", templateID.String())

	return order, nil
}

// Get returns one order with its full history.
func (s *Service) Get(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "order not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load order")
	}
	return order, nil
}

// List returns orders matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]*models.Order, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list orders")
	}
	return orders, nil
}

// Transition moves an order to the requested state if the template's table
// allows it. The store's version check serializes concurrent attempts on
// the same order; losers get a conflict and must re-read. The notification
// (when the matched rule names one) is dispatched only after the transition
// is durably recorded; its template id is returned so callers can report
// what was triggered.
func (s *Service) Transition(ctx context.Context, orderID id.OrderID, requested models.State, note string) (*models.Order, string, error) {
	ctx, span := tracer.Start(ctx, "order.Transition",
		trace.WithAttributes(
			attribute.String("order_id", orderID.String()),
			attribute.Int("requested_state", int(requested)),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.TransitionDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
		}
	}()

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	table, err := s.registry.Table(order.TemplateID)
	if err != nil {
		return nil, "", err
	}

	expectedVersion := order.Version
	entry, notify, err := workflow.ApplyTransition(table, order, requested, note,
		requestcontext.Actor(ctx), requestcontext.Now(ctx))
	if err != nil {
		s.rejectTransition(ctx, order, requested, err)
		return nil, "", err
	}

	updated, err := s.orders.ApplyTransition(ctx, orderID, expectedVersion, order.State, entry)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			conflict := dErrors.New(dErrors.CodeConflict, "order was modified concurrently, re-read and retry")
			s.rejectTransition(ctx, order, requested, conflict)
			return nil, "", conflict
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.New(dErrors.CodeNotFound, "order not found")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist transition")
	}

	s.publishAudit(ctx, audit.Event{
		Action:     audit.ActionOrderTransitioned,
		OrderID:    orderID,
		TemplateID: updated.TemplateID,
		FromState:  int(entry.From),
		ToState:    int(entry.To),
		Note:       entry.Note,
	})
	if s.metrics != nil {
		s.metrics.TransitionsApplied.WithLabelValues(updated.State.String()).Inc()
	}
	s.logger.InfoContext(ctx, "order transitioned",
		"order_id", orderID.String(),
		"from_state", entry.From.String(),
		"to_state", entry.To.String())

	if notify != "" {
		s.dispatchNotification(ctx, updated, entry, notify)
	}

	return updated, notify, nil
}

func (s *Service) rejectTransition(ctx context.Context, order *models.Order, requested models.State, cause error) {
	s.publishAudit(ctx, audit.Event{
		Action:     audit.ActionTransitionRejected,
		OrderID:    order.ID,
		TemplateID: order.TemplateID,
		FromState:  int(order.State),
		ToState:    int(requested),
		Reason:     cause.Error(),
	})
	if s.metrics != nil {
		s.metrics.TransitionsRejected.WithLabelValues(string(dErrors.CodeOf(cause))).Inc()
	}
}

// dispatchNotification hands the notification named by the matched rule to
// the messaging collaborator. Ticket updates address the dealer who owns
// the order; every other template is customer-facing. Delivery failure
// never rolls back the transition; the order is already in its new state.
func (s *Service) dispatchNotification(ctx context.Context, order *models.Order, entry models.HistoryEntry, template string) {
	if s.dispatcher == nil {
		return
	}

	recipient := notification.RecipientCustomer
	if template == workflow.NotifyTicketUpdate {
		recipient = notification.RecipientDealer
	}

	req := notification.Request{
		Recipient:  recipient,
		TemplateID: template,
		OrderID:    order.ID,
		Context: map[string]string{
			"offer_title": order.OfferTitle,
			"from_state":  entry.From.String(),
			"to_state":    entry.To.String(),
		},
	}
	if entry.Note != "" {
		req.Context["note"] = entry.Note
	}

	if err := s.dispatcher.Dispatch(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "notification dispatch failed",
			"order_id", order.ID.String(), "template", template, "error", err)
		return
	}

	s.publishAudit(ctx, audit.Event{
		Action:     audit.ActionNotificationQueued,
		OrderID:    order.ID,
		TemplateID: order.TemplateID,
		FromState:  int(entry.From),
		ToState:    int(entry.To),
		Reason:     template,
	})
	if s.metrics != nil {
		s.metrics.NotificationsRequested.WithLabelValues(template).Inc()
	}
}
