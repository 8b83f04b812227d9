// Package service orchestrates the order lifecycle: submission validation,
// persistence, state transitions, audit, and notification fan-out. It owns
// the ordering between those steps; the store, the workflow tables, and the
// dispatcher each stay single-purpose.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"order-gateway/internal/notification"
	"order-gateway/internal/offer"
	"order-gateway/internal/order/engine"
	"order-gateway/internal/order/models"
	"order-gateway/internal/order/store"
	"order-gateway/internal/platform/metrics"
	"order-gateway/internal/template"
	id "order-gateway/pkg/domain"
	"order-gateway/pkg/platform/audit"
	"order-gateway/pkg/requestcontext"
)

var tracer = otel.Tracer("order-gateway/order")

// Store is the persistence surface the service needs. Both the in-memory
// and the Postgres store satisfy it.
type Store interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	List(ctx context.Context, filter store.ListFilter) ([]*models.Order, error)
	ApplyTransition(ctx context.Context, orderID id.OrderID, expectedVersion int, newState models.State, entry models.HistoryEntry) (*models.Order, error)
}

// Service orchestrates order submission and lifecycle transitions.
type Service struct {
	registry   *template.Registry
	engine     *engine.Engine
	orders     Store
	offers     *offer.Resolver
	dispatcher notification.Dispatcher
	logger     *slog.Logger
	publisher  audit.Publisher
	metrics    *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithDispatcher(d notification.Dispatcher) Option {
	return func(s *Service) {
		s.dispatcher = d
	}
}

func WithOfferResolver(r *offer.Resolver) Option {
	return func(s *Service) {
		s.offers = r
	}
}

// New constructs a Service over a template registry and an order store.
func New(registry *template.Registry, orders Store, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		engine:   engine.New(registry),
		orders:   orders,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.offers == nil {
		s.offers = offer.NewResolver(offer.NewRegistrySource(registry))
	}
	return s
}

func (s *Service) publishAudit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	event.Actor = requestcontext.Actor(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.publisher.Publish(event); err != nil {
		s.logger.WarnContext(ctx, "audit publish failed",
			"action", string(event.Action), "order_id", event.OrderID.String(), "error", err)
	}
}
