package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/logging"
	"github.com/agbru/quadcalc/internal/quadrature"
)

// Server timeouts.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 2 * time.Minute
	IdleTimeout     = time.Minute
	ShutdownTimeout = 30 * time.Second
)

// Server is the quadcalc HTTP API.
type Server struct {
	addr       string
	registry   *integrand.Registry
	factory    *quadrature.Factory
	workers    int
	security   SecurityConfig
	metrics    *Metrics
	logger     logging.Logger
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(cfg SecurityConfig) Option {
	return func(s *Server) { s.security = cfg }
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultWorkers sets the worker count used when a request does not
// name one.
func WithDefaultWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a server listening on addr. The factory is shared and must
// outlive the server.
func New(addr string, registry *integrand.Registry, factory *quadrature.Factory, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		registry: registry,
		factory:  factory,
		workers:  1,
		security: DefaultSecurityConfig(),
		metrics:  NewMetrics(),
		logger:   logging.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}
	return s
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, SecurityMiddleware(s.security, s.instrument(pattern, h)))
	}
	route("/v1/integrate", s.handleIntegrate)
	route("/v1/converge", s.handleConverge)
	route("/v1/functions", s.handleFunctions)
	route("/health", s.handleHealth)
	route("/metrics", s.handleMetrics)
	return mux
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", err)
		return err
	}
	<-errCh
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument tracks in-flight requests and records the status and latency
// of every request on route, both in the metrics and the debug log.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(route, rec.status, elapsed)
		s.logger.Debug("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("duration", elapsed))
	}
}
