package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns the defaults used by `brickarcade serve --http`.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:         ":8080",
		ReadTimeout:     10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP API server. Nothing listens until ListenAndServe.
type Server struct {
	cfg     ServerConfig
	router  *chi.Mux
	limiter *IPRateLimiter
	watch   *watchHandler
	http    *http.Server
	log     *log.Logger
}

// NewServer builds a server around a router made from rc.
func NewServer(cfg ServerConfig, rc RouterConfig) *Server {
	if rc.Logger == nil {
		rc.Logger = log.New(io.Discard)
	}
	if rc.RateLimiter == nil {
		rl := DefaultRateLimitConfig
		if rc.RateLimitConfig != nil {
			rl = *rc.RateLimitConfig
		}
		rc.RateLimiter = NewIPRateLimiter(rl)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultServerConfig().ShutdownTimeout
	}

	router, watch := newRouter(rc)
	s := &Server{
		cfg:     cfg,
		router:  router,
		limiter: rc.RateLimiter,
		watch:   watch,
		log:     rc.Logger,
	}
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ErrorLog:          rc.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
	}
	return s
}

// Handler returns the router, for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Address
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("starting HTTP API", "address", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		s.limiter.Stop()
		if err != nil {
			return fmt.Errorf("api: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	s.log.Info("shutting down HTTP API")
	return s.Shutdown()
}

// Shutdown closes spectator sockets, then stops the listener gracefully.
func (s *Server) Shutdown() error {
	s.watch.close()
	s.limiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return nil
}
