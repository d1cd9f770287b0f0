package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Rana718/Seedbed/internal/dispatch"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Pinger reports which backends fail a health check.
type Pinger interface {
	Ping(ctx context.Context) map[types.DBType]error
}

type Options struct {
	CORSOrigins []string
	Pinger      Pinger
	Logger      *slog.Logger
}

type Server struct {
	router     chi.Router
	dispatcher *dispatch.Dispatcher
	pinger     Pinger
	logger     *slog.Logger
}

func New(d *dispatch.Dispatcher, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"http://localhost:5173"}
	}

	s := &Server{
		router:     chi.NewRouter(),
		dispatcher: d,
		pinger:     opts.Pinger,
		logger:     opts.Logger.With("component", "http"),
	}

	s.router.Use(withRequestID)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Post("/generate", s.handleGenerate)
	s.router.Post("/clear", s.handleClear)
	s.router.Delete("/clear", s.handleClear)
	s.router.Post("/staff", s.handleFetch)
	s.router.Get("/staff", s.handleFetch)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
