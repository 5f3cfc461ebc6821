// Package server exposes decomposition and planning over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ShayCichocki/flowplan/internal/pipeline"
	"github.com/ShayCichocki/flowplan/internal/version"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Service is the request pipeline the handlers call.
type Service interface {
	Decompose(ctx context.Context, req models.DecomposeRequest) (models.DecomposeResponse, error)
	Plan(ctx context.Context, req models.PlanRequest) (models.PlanResponse, error)
}

// Verify the pipeline satisfies Service at compile time.
var _ Service = (*pipeline.Service)(nil)

// Config holds the HTTP surface settings.
type Config struct {
	Addr       string
	CORSOrigin string
	BodyLimit  int64
	// RequestTimeout bounds one request, oracle attempts included.
	RequestTimeout time.Duration
}

// Server serves the flowplan HTTP API.
type Server struct {
	cfg    Config
	svc    Service
	logger logrus.FieldLogger
}

// New creates a Server.
func New(cfg Config, svc Service, logger logrus.FieldLogger) *Server {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = 1 << 20
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 3 * time.Minute
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	return &Server{cfg: cfg, svc: svc, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(CORS(s.cfg.CORSOrigin))
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(s.cfg.RequestTimeout))

	r.Get("/health", s.handleHealth)
	r.Post("/decompose", s.handleDecompose)
	r.Post("/plan", s.handlePlan)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.WithField("addr", s.cfg.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{OK: true, Version: version.Get()})
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[models.DecomposeRequest](w, r, s.cfg.BodyLimit)
	if !ok {
		return
	}

	resp, err := s.svc.Decompose(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[models.PlanRequest](w, r, s.cfg.BodyLimit)
	if !ok {
		return
	}

	resp, err := s.svc.Plan(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidGranularity), errors.Is(err, pipeline.ErrInvalidWorkflow):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
