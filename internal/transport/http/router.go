// Package httptransport assembles the HTTP surface: middleware chain,
// domain handlers, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	orderhandler "order-gateway/internal/order/handler"
	"order-gateway/internal/platform/middleware"
	"order-gateway/internal/template"
	templatehandler "order-gateway/internal/template/handler"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Orders   orderhandler.Service
	Registry *template.Registry
	Health   func(r chi.Router)
}

// NewRouter builds the chi router with the standard middleware chain.
// Request-scoped values (request id, actor, request time) are injected
// before any handler runs so services can rely on them.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Actor)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Handle("/metrics", promhttp.Handler())
	if deps.Health != nil {
		deps.Health(r)
	} else {
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		orderhandler.New(deps.Orders, deps.Logger).Register(api)
		templatehandler.New(deps.Registry).Register(api)
	})

	return r
}
