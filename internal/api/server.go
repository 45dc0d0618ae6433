// Package api serves the archive and the timeline layout over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/insight"
	"github.com/five82/tideline/internal/metrics"
	"github.com/five82/tideline/internal/timeline"
)

const (
	defaultAddr     = "127.0.0.1:7650"
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configure the server.
type Options struct {
	Addr        string
	Archive     archive.Archive
	Engine      *timeline.Engine
	Summarizer  insight.Summarizer // nil disables POST /api/summaries
	Logger      *slog.Logger
	CORSOrigins []string // empty allows all origins
}

// Server is the tideline HTTP API.
type Server struct {
	addr       string
	archive    archive.Archive
	engine     *timeline.Engine
	summarizer insight.Summarizer
	logger     *slog.Logger
	router     chi.Router
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Archive == nil {
		return nil, errors.New("api: archive is required")
	}
	if opts.Engine == nil {
		engine, err := timeline.NewEngine(timeline.Config{})
		if err != nil {
			return nil, err
		}
		opts.Engine = engine
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		addr:       opts.Addr,
		archive:    opts.Archive,
		engine:     opts.Engine,
		summarizer: opts.Summarizer,
		logger:     opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/entries", s.handleListEntries)
		r.Post("/entries", s.handleAddEntry)
		r.Get("/entries/{id}", s.handleGetEntry)
		r.Put("/entries/{id}", s.handleUpdateEntry)
		r.Delete("/entries/{id}", s.handleDeleteEntry)
		r.Get("/tags", s.handleListTags)
		r.Get("/stats", s.handleStats)
		r.Get("/layout", s.handleLayout)
		r.Post("/summaries", s.handleSummary)
	})
	s.router = r
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("api listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("api stopped")
		return nil
	})
	return g.Wait()
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
