// Package pipeline runs a request end to end: orchestrator, structural
// checks, rendering, then the response envelope.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShayCichocki/flowplan/internal/decompose"
	"github.com/ShayCichocki/flowplan/internal/diag"
	"github.com/ShayCichocki/flowplan/internal/graph"
	"github.com/ShayCichocki/flowplan/internal/oracle"
	"github.com/ShayCichocki/flowplan/internal/planner"
	"github.com/ShayCichocki/flowplan/internal/render"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

// ErrInvalidWorkflow is returned when a caller-supplied workflow cannot be planned.
var ErrInvalidWorkflow = errors.New("invalid workflow")

// Config holds the Service settings.
type Config struct {
	// Oracle is optional; nil means heuristic engines only.
	Oracle oracle.Oracle
	// OracleTimeout bounds each oracle attempt.
	OracleTimeout time.Duration
	// Granularity is used when a request leaves it empty.
	Granularity models.Granularity
	// Direction is the Mermaid layout direction.
	Direction render.Direction
}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	decomposer  *decompose.Orchestrator
	planner     *planner.Planner
	granularity models.Granularity
	direction   render.Direction
}

// New creates a Service.
func New(cfg Config) *Service {
	granularity := cfg.Granularity
	if !granularity.Valid() {
		granularity = models.GranularityMedium
	}
	direction := cfg.Direction
	if direction == "" {
		direction = render.TopDown
	}

	return &Service{
		decomposer:  decompose.New(cfg.Oracle, decompose.WithTimeout(cfg.OracleTimeout)),
		planner:     planner.New(cfg.Oracle, planner.WithTimeout(cfg.OracleTimeout)),
		granularity: granularity,
		direction:   direction,
	}
}

// Decompose builds, checks and renders a workflow. Oracle problems are
// reported in the envelope; the only error is invalid request input.
func (s *Service) Decompose(ctx context.Context, req models.DecomposeRequest) (models.DecomposeResponse, error) {
	if req.Granularity == "" {
		req.Granularity = s.granularity
	}
	g, err := models.ParseGranularity(string(req.Granularity))
	if err != nil {
		return models.DecomposeResponse{}, err
	}
	req.Granularity = g

	log := diag.FromContext(ctx)
	res := s.decomposer.Decompose(ctx, req)
	wf := res.Workflow

	order, issues := graph.CheckLogged(&wf, log.Debugf)
	if len(issues) > 0 {
		log.WithField("issues", len(issues)).Info("Workflow has structural issues")
	}

	return models.DecomposeResponse{
		Workflow:    wf,
		Mermaid:     render.Mermaid(wf, s.direction),
		TopoOrder:   order,
		Issues:      issues,
		Engine:      res.Engine,
		OracleError: res.OracleError,
		OracleRaw:   res.OracleRaw,
	}, nil
}

// Plan sanitizes a caller-supplied workflow once and builds its agentic
// plan. The caller's workflow is not modified.
func (s *Service) Plan(ctx context.Context, req models.PlanRequest) (models.PlanResponse, error) {
	wf := req.Workflow
	wf.Tasks = make([]models.Task, len(req.Workflow.Tasks))
	for i, t := range req.Workflow.Tasks {
		if !t.Actor.Valid() {
			return models.PlanResponse{}, fmt.Errorf("%w: task %q has unknown actor %q", ErrInvalidWorkflow, t.ID, t.Actor)
		}
		t.DependsOn = append([]string(nil), t.DependsOn...)
		wf.Tasks[i] = t
	}
	graph.Sanitize(&wf)

	res := s.planner.Plan(ctx, wf)
	return models.PlanResponse{
		AgenticPlan: res.Plan,
		Engine:      res.Engine,
		OracleError: res.OracleError,
		OracleRaw:   res.OracleRaw,
	}, nil
}
