package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservas/internal/api"
	"reservas/internal/catalog"
	"reservas/internal/config"
	"reservas/internal/dispatch"
	"reservas/internal/domain"
	"reservas/internal/events"
	"reservas/internal/logging"
	"reservas/internal/metrics"
	"reservas/internal/repository"
	"reservas/internal/wizard"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	cat := catalog.New(cfg.Services, cfg.Slots)
	wiz := wizard.New(cat)

	sessions, cleanup := initSessionStore(cfg, &logger)
	defer cleanup()

	sender, err := initSender(cfg, &logger)
	if err != nil {
		return err
	}

	templates, err := dispatch.NewTemplateSource(cfg.SendGrid, &logger)
	if err != nil {
		return fmt.Errorf("init template source: %w", err)
	}

	bus := events.NewEventBus()
	subscribeEventLog(bus, &logger)

	dispatcher := dispatch.New(sender, templates, sessions, bus, cfg.Booking.CTAURL, &logger)

	httpServer := api.NewHTTPServer(cfg, cat, wiz, sessions, dispatcher, bus, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initSessionStore prefers Redis with in-memory failover; without a Redis
// address configured (or with Redis down at boot) sessions live in memory
// only, which is fine for a single instance.
func initSessionStore(cfg *config.Config, logger *zerolog.Logger) (domain.SessionRepository, func()) {
	ttl := time.Duration(cfg.Booking.SessionTTLHours) * time.Hour
	memory := repository.NewMemorySessionRepository(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory session store")
		return memory, func() {}
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory sessions")
		_ = repository.Close(client)
		return memory, func() {}
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	redisRepo := repository.NewRedisSessionRepository(client, ttl)
	failover := repository.NewFailoverSessionRepository(redisRepo, memory, logger)
	return failover, func() { _ = repository.Close(client) }
}

func initSender(cfg *config.Config, logger *zerolog.Logger) (dispatch.EmailSender, error) {
	if cfg.SendGrid.Sandbox {
		logger.Warn().Msg("sandbox mode: confirmation emails are logged, not sent")
		return dispatch.NewStubSender(logger), nil
	}
	return dispatch.NewSendGridSender(cfg.SendGrid, logger), nil
}

func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventConfirmationSent, func(event *events.Event) error {
		logger.Info().RawJSON("event", event.Payload).Msg("confirmation sent")
		return nil
	})
	bus.Subscribe(events.EventConfirmationFailed, func(event *events.Event) error {
		logger.Warn().RawJSON("event", event.Payload).Msg("confirmation failed")
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
