package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"order-gateway/internal/notification"
	"order-gateway/internal/offer"
	orderservice "order-gateway/internal/order/service"
	orderstore "order-gateway/internal/order/store"
	"order-gateway/internal/platform/config"
	"order-gateway/internal/platform/httpserver"
	"order-gateway/internal/platform/logger"
	"order-gateway/internal/platform/metrics"
	platformredis "order-gateway/internal/platform/redis"
	"order-gateway/internal/template"
	httptransport "order-gateway/internal/transport/http"
	auditmemory "order-gateway/pkg/platform/audit/store/memory"
	auditpostgres "order-gateway/pkg/platform/audit/store/postgres"
)

// main wires dependencies and owns process lifecycle. Business logic lives
// in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	registry, err := loadRegistry(cfg)
	if err != nil {
		log.Error("failed to load template catalog", "error", err)
		os.Exit(1)
	}

	var db *sql.DB
	var orders orderservice.Store = orderstore.NewMemory()
	var auditOpt orderservice.Option
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}
		orders = orderstore.NewPostgres(db)
		auditOpt = orderservice.WithAuditPublisher(auditpostgres.New(db))
		log.Info("using postgres order store")
	} else {
		auditOpt = orderservice.WithAuditPublisher(auditmemory.New())
		log.Info("using in-memory order store")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	offerOpts := []offer.ResolverOption{}
	if redisClient != nil {
		defer redisClient.Close()
		offerOpts = append(offerOpts, offer.WithCache(offer.NewRedisCache(redisClient.Client), config.OfferCacheTTL))
		log.Info("offer display cache enabled")
	}
	offers := offer.NewResolver(offer.NewRegistrySource(registry), offerOpts...)

	var dispatcher notification.Dispatcher
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := notification.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		dispatcher = kafka
		log.Info("notification producer enabled", "topic", cfg.Kafka.Topic)
	} else {
		dispatcher = notification.NewMemory()
		log.Warn("no kafka brokers configured, notifications are recorded in memory only")
	}

	svc := orderservice.New(registry, orders,
		orderservice.WithLogger(log),
		orderservice.WithMetrics(metrics.New()),
		orderservice.WithDispatcher(dispatcher),
		orderservice.WithOfferResolver(offers),
		auditOpt,
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Orders:   svc,
		Registry: registry,
		Health:   healthRoutes(db, redisClient),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting order-gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func loadRegistry(cfg config.Server) (*template.Registry, error) {
	if cfg.TemplateFile != "" {
		return template.Load(cfg.TemplateFile)
	}
	return template.Default()
}

func healthRoutes(db *sql.DB, redisClient *platformredis.Client) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
			if db != nil {
				if err := db.PingContext(req.Context()); err != nil {
					http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
					return
				}
			}
			if redisClient != nil {
				if err := redisClient.Health(req.Context()); err != nil {
					http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
					return
				}
			}
			w.WriteHeader(http.StatusOK)
		})
	}
}
