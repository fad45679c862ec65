package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boardview/internal/metrics"
	"github.com/matzehuels/boardview/pkg/config"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/interact"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves views of one module tree.
type Server struct {
	tree    *module.Tree
	cfg     *config.Config
	logger  *log.Logger
	metrics *metrics.Registry
	views   *store
	router  chi.Router
	started time.Time
}

// New returns a server for tree. reg may be nil, in which case /metrics is
// not served.
func New(tree *module.Tree, cfg *config.Config, logger *log.Logger, reg *metrics.Registry) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		tree:    tree,
		cfg:     cfg,
		logger:  logger,
		metrics: reg,
		views:   newStore(cfg.Server.MaxViews, cfg.Server.ViewTTL),
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/views", func(r chi.Router) {
		r.Post("/", s.handleCreateView)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withView)
			r.Delete("/", s.handleDeleteView)
			r.Get("/frame", s.handleFrame)
			r.Post("/pan", s.handlePan)
			r.Post("/zoom", s.handleZoom)
			r.Post("/resize", s.handleResize)
			r.Post("/reset", s.handleReset)
			r.Post("/toggle", s.handleToggle)
			r.Post("/expand-all", s.handleExpandAll)
			r.Post("/collapse-all", s.handleCollapseAll)
			r.Post("/hit", s.handleHit)
			r.Post("/drag/begin", s.handleDragBegin)
			r.Post("/drag/update", s.handleDragUpdate)
			r.Post("/drag/end", s.handleDragEnd)
			r.Post("/drag/cancel", s.handleDragCancel)
			r.Get("/render.{format}", s.handleRender)
		})
	})
	return r
}

// newController builds a collapsed controller for a new view.
func (s *Server) newController(viewportW, viewportH float64) (*interact.Controller, error) {
	cam, err := s.cfg.NewCamera()
	if err != nil {
		return nil, err
	}
	if viewportW > 0 && viewportH > 0 {
		cam.SetViewport(viewportW, viewportH)
	}
	return interact.New(s.tree, cam, s.cfg.ControllerOptions()), nil
}

func (s *Server) updateViewGauge() {
	if s.metrics != nil {
		s.metrics.SetViews(s.views.len())
	}
}

// Sweep drops views idle for longer than the view TTL.
func (s *Server) Sweep() int {
	n := s.views.sweep()
	if n > 0 {
		s.logger.Debug("swept idle views", "count", n)
		s.updateViewGauge()
	}
	return n
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle views are swept periodically while serving.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "modules", s.tree.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	interval := time.Minute
	if ttl := s.cfg.Server.ViewTTL; ttl > 0 && ttl/2 < interval {
		interval = ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errc:
			if ok {
				return err
			}
			return nil
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			s.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("server forced to shutdown", "err", err)
				return err
			}
			s.logger.Info("server exited")
			return nil
		}
	}
}
