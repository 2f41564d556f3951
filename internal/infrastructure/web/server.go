package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chatsql/internal/application/port/input"
	"chatsql/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	LogJSON        bool
}

type Server struct {
	cfg    ServerConfig
	http   *http.Server
	logger output.LoggerPort
}

func NewServer(cfg ServerConfig, runner input.QueryRunner, logger output.LoggerPort) (*Server, error) {
	h, err := NewHandler(runner, logger)
	if err != nil {
		return nil, err
	}

	accessLog := httplog.NewLogger("chatsql", httplog.Options{
		JSON:    cfg.LogJSON,
		Concise: true,
	})

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(h, cfg.RequestTimeout, httplog.RequestLogger(accessLog)),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// NewRouter mounts the page and API routes. Extra middleware runs before
// the recoverer and the timeout.
func NewRouter(h *Handler, timeout time.Duration, mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(mw...)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/", h.Index)
	r.Post("/query", h.Query)
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", h.APIQuery)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting web server", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
