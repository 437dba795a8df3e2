package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
	"github.com/cardinalphin/fire-and-forget-notes/internal/metrics"
)

const defaultMaxUpload = 10 << 20

// Ports groups the services the web UI drives.
type Ports struct {
	Notes   driving.NoteService
	Search  driving.SearchService
	Tasks   driving.TaskService
	Copilot driving.CopilotService
}

// Validate checks that every port is set.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("web: ports are nil")
	}
	switch {
	case p.Notes == nil:
		return errors.New("web: note service is required")
	case p.Search == nil:
		return errors.New("web: search service is required")
	case p.Tasks == nil:
		return errors.New("web: task service is required")
	case p.Copilot == nil:
		return errors.New("web: copilot service is required")
	}
	return nil
}

// Server is the web UI HTTP handler.
type Server struct {
	ports      *Ports
	router     *chi.Mux
	pages      map[string]*template.Template
	metrics    *metrics.Collector
	uploadsDir string
	maxUpload  int64
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics and serves them at /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithUploadsDir enables image uploads into dir, served under /uploads/.
func WithUploadsDir(dir string) Option {
	return func(s *Server) {
		s.uploadsDir = dir
	}
}

// WithMaxUpload bounds the size of an uploaded image in bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New creates the web UI server.
func New(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		ports:     ports,
		router:    chi.NewRouter(),
		pages:     pages,
		maxUpload: defaultMaxUpload,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger.Zap()))
	r.Use(requestMetrics(s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/browse", http.StatusFound)
	})
	r.Get("/new", s.handleNewForm)
	r.Post("/new", s.handleNewSubmit)
	r.Get("/browse", s.handleBrowse)
	r.Get("/note", s.handleView)
	r.Get("/note/edit", s.handleEditForm)
	r.Post("/note/edit", s.handleEditSubmit)
	r.Post("/note/delete", s.handleDelete)
	r.Get("/search", s.handleSearch)
	r.Get("/copilot", s.handleCopilot)
	r.Get("/tasks", s.handleTasks)
	r.Post("/tasks/complete", s.handleCompleteTask)

	if s.uploadsDir != "" {
		r.Post("/upload", s.handleUpload)
		r.Get("/uploads/*", s.handleUploaded)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web server shutdown: %w", err)
		}
		return nil
	}
}
