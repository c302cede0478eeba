package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"reservas/internal/catalog"
	"reservas/internal/config"
	"reservas/internal/dispatch"
	"reservas/internal/domain"
	"reservas/internal/wizard"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the booking wizard to the web shell as a JSON API.
type HTTPServer struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	wizard     *wizard.Wizard
	sessions   domain.SessionRepository
	dispatcher *dispatch.Dispatcher
	bus        domain.EventPublisher
	logger     *zerolog.Logger
	server     *http.Server
	limiter    *clientLimiter
}

func NewHTTPServer(
	cfg *config.Config,
	cat *catalog.Catalog,
	wiz *wizard.Wizard,
	sessions domain.SessionRepository,
	dispatcher *dispatch.Dispatcher,
	bus domain.EventPublisher,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:        cfg,
		catalog:    cat,
		wizard:     wiz,
		sessions:   sessions,
		dispatcher: dispatcher,
		bus:        bus,
		logger:     logger,
		limiter:    newClientLimiter(cfg.Booking),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/services", srv.handleServices)
	mux.HandleFunc("/api/v1/slots", srv.handleSlots)
	mux.HandleFunc("/api/v1/sessions", srv.handleCreateSession)
	mux.HandleFunc("/api/v1/sessions/", srv.handleSession)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientLimiter keeps one token bucket per remote host. The booking form is
// public; this is abuse protection, not auth.
type clientLimiter struct {
	cfg      config.BookingConfig
	limiters sync.Map // map[string]*rate.Limiter
}

func newClientLimiter(cfg config.BookingConfig) *clientLimiter {
	return &clientLimiter{cfg: cfg}
}

func (l *clientLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.cfg.RateLimitRPS <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !l.getLimiter(clientKey(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *clientLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := l.cfg.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RateLimitRPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
