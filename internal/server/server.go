// Package server exposes segmentation, parsing and symbol lookup over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/g5becks/mathspan/internal/render"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP API server. All handlers share one renderer, so its
// parse cache is warmed across requests.
type Server struct {
	router   chi.Router
	renderer *render.Renderer
	log      *slog.Logger
}

// New creates and configures the HTTP server. A nil renderer gets a
// default cache; a nil logger discards output.
func New(renderer *render.Renderer, log *slog.Logger) *Server {
	if renderer == nil {
		renderer = render.New(nil)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Server{renderer: renderer, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/segment", s.handleSegment)
		r.Post("/render", s.handleRender)
		r.Post("/parse", s.handleParse)
		r.Get("/symbols", s.handleSymbols)
		r.Get("/cache", s.handleCache)
	})

	s.router = r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return oops.
				Code("SERVER_FAILED").
				With("addr", addr).
				Wrapf(err, "serving http")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return oops.
			Code("SERVER_FAILED").
			Wrapf(err, "shutting down http server")
	}
	return nil
}
