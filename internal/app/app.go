package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/cart"
	"github.com/vladislavdragonenkov/cardapio/internal/health"
	"github.com/vladislavdragonenkov/cardapio/internal/metrics"
	"github.com/vladislavdragonenkov/cardapio/internal/service/catalog"
	"github.com/vladislavdragonenkov/cardapio/internal/service/checkout"
	"github.com/vladislavdragonenkov/cardapio/internal/service/idempotency"
	"github.com/vladislavdragonenkov/cardapio/internal/service/orders"
	"github.com/vladislavdragonenkov/cardapio/internal/service/outbox"
	"github.com/vladislavdragonenkov/cardapio/internal/service/tenant"
	httpapi "github.com/vladislavdragonenkov/cardapio/internal/transport/http"
	"github.com/vladislavdragonenkov/cardapio/internal/version"
)

// Run запускает сервис целиком: хранилище, сервисы, HTTP API, служебный
// сервер с метриками и health checks, фоновые workers. Блокируется до отмены
// ctx, после чего выполняет graceful shutdown.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	logger.WithField("version", version.String()).Info("starting cardapio service")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	cartMetrics := metrics.NewCartMetrics()
	carts := cart.NewManager(deps.CartStore, nil)

	catalogSvc := catalog.NewService(deps.Restaurants, deps.Menu, nil)
	tenantSvc := tenant.NewService(deps.Restaurants, deps.Outbox, nil)
	ordersSvc := orders.NewService(deps.Orders, deps.Timeline, deps.Outbox, cartMetrics, nil)
	checkoutSvc := checkout.NewService(
		carts,
		deps.Orders,
		deps.Restaurants,
		deps.Timeline,
		deps.Outbox,
		deps.Idempotency,
		cartMetrics,
		nil,
	)

	api := httpapi.NewAPI(httpapi.Dependencies{
		Carts:    carts,
		Catalog:  catalogSvc,
		Checkout: checkoutSvc,
		Orders:   ordersSvc,
		Tenants:  tenantSvc,
		Metrics:  cartMetrics,
	})
	apiServer := httpapi.NewServer(cfg.HTTPAddr, api)
	metricsServer := newMetricsServer(cfg.MetricsAddr, deps)

	outboxWorker := outbox.NewWorker(
		deps.Outbox,
		deps.OutboxPublisher(),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithDLQPublisher(deps.DLQPublisher()),
	)
	cleanupWorker := idempotency.NewCleanupWorker(deps.Idempotency)

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		outboxWorker.Run(workersCtx)
	}()
	cleanupDone := make(chan struct{})
	go func() {
		defer close(cleanupDone)
		cleanupWorker.Run(workersCtx)
	}()

	errCh := make(chan error, 2)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http api listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http api: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", cfg.MetricsAddr).Info("metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.WithError(runErr).Error("server failed")
	}

	shutdownHTTP(apiServer, cfg.ShutdownTimeout, logger.WithField("server", "api"))
	shutdownHTTP(metricsServer, cfg.ShutdownTimeout, logger.WithField("server", "metrics"))

	stopWorkers()
	waitWithTimeout(workersDone, cfg.ShutdownTimeout)
	waitWithTimeout(cleanupDone, cfg.ShutdownTimeout)

	logger.Info("cardapio service stopped")
	return runErr
}

// newMetricsServer собирает служебный сервер: Prometheus метрики и health
// endpoints для kubernetes probes.
func newMetricsServer(addr string, deps *Dependencies) *http.Server {
	healthHandler := health.NewHandler(version.String())
	if deps.PG != nil {
		pg := deps.PG
		healthHandler.RegisterChecker("postgres", health.NewSimpleChecker("postgres", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pg.Ping(ctx)
		}))
	}
	if deps.KafkaProducer != nil {
		healthHandler.RegisterChecker("kafka", health.NewSimpleChecker("kafka", func() error {
			return nil
		}))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func shutdownHTTP(server *http.Server, timeout time.Duration, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed, closing")
		_ = server.Close()
	}
}

func waitWithTimeout(done <-chan struct{}, timeout time.Duration) {
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
