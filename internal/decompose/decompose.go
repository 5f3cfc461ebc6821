// Package decompose turns free text into a task workflow, consulting an
// optional oracle and falling back to a deterministic heuristic.
package decompose

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ShayCichocki/flowplan/internal/diag"
	"github.com/ShayCichocki/flowplan/internal/graph"
	"github.com/ShayCichocki/flowplan/internal/oracle"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

const (
	attemptStructured = "structured"
	attemptMinimal    = "minimal-schema"
)

// DefaultTimeout bounds each oracle attempt when none is configured.
const DefaultTimeout = 60 * time.Second

// Result is a finished decomposition plus advisory oracle diagnostics.
type Result struct {
	Workflow models.Workflow
	Engine   models.Engine
	// OracleError joins every failed attempt, in order.
	OracleError string
	// OracleRaw is the raw reduced-schema answer when that path was used.
	OracleRaw string
}

// Orchestrator decides which engine produces a workflow.
type Orchestrator struct {
	oracle    oracle.Oracle
	heuristic *Heuristic
	timeout   time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout sets the per-attempt oracle timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// New creates an Orchestrator. A nil oracle means heuristic only.
func New(o oracle.Oracle, opts ...Option) *Orchestrator {
	orch := &Orchestrator{
		oracle:    o,
		heuristic: NewHeuristic(),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(orch)
	}
	return orch
}

type state int

const (
	stateStructured state = iota
	stateMinimal
	stateHeuristic
	stateDone
)

// Decompose produces a sanitized workflow for req. Oracle problems never
// surface as errors; they are reported in Result.OracleError.
func (o *Orchestrator) Decompose(ctx context.Context, req models.DecomposeRequest) Result {
	log := diag.FromContext(ctx).WithField("component", "decompose")
	if !req.Granularity.Valid() {
		req.Granularity = models.GranularityMedium
	}

	var (
		res      Result
		failures []*oracle.Failure
	)

	st := stateStructured
	if o.oracle == nil {
		log.Info("No oracle configured; using heuristic decomposition")
		st = stateHeuristic
	}

	for st != stateDone {
		switch st {
		case stateStructured:
			wf, fail := o.structured(ctx, req)
			if fail != nil {
				log.WithError(fail).Warn("Structured oracle attempt failed; retrying with minimal schema")
				failures = append(failures, fail)
				st = stateMinimal
				continue
			}
			res.Workflow, res.Engine = wf, models.EngineOracleStructured
			st = stateDone

		case stateMinimal:
			wf, raw, fail := o.minimal(ctx, req)
			if fail != nil {
				log.WithError(fail).Warn("Minimal-schema oracle attempt failed; falling back to heuristic")
				failures = append(failures, fail)
				st = stateHeuristic
				continue
			}
			res.Workflow, res.Engine, res.OracleRaw = wf, models.EngineOracleMinimal, raw
			st = stateDone

		case stateHeuristic:
			log.WithField("granularity", req.Granularity).Info("Using heuristic decomposition")
			res.Workflow, res.Engine = o.heuristic.Decompose(req), models.EngineHeuristic
			st = stateDone
		}
	}

	res.OracleError = oracle.Join(failures)
	if title := strings.TrimSpace(req.Title); title != "" {
		res.Workflow.Title = title
	}
	if strings.TrimSpace(res.Workflow.Title) == "" {
		res.Workflow.Title = "Workflow"
	}
	graph.Sanitize(&res.Workflow)

	log.WithFields(logrus.Fields{
		"engine": res.Engine,
		"tasks":  len(res.Workflow.Tasks),
	}).Info("Decomposition complete")
	return res
}

func (o *Orchestrator) structured(ctx context.Context, req models.DecomposeRequest) (models.Workflow, *oracle.Failure) {
	var answer structuredWorkflow
	_, fail := oracle.Ask(ctx, o.oracle, oracle.Attempt{
		Name:    attemptStructured,
		System:  structuredSystemPrompt,
		Prompt:  userPrompt(req),
		Timeout: o.timeout,
	}, &answer)
	if fail != nil {
		return models.Workflow{}, fail
	}

	wf, err := answer.toWorkflow()
	if err != nil {
		return models.Workflow{}, oracle.SchemaFailure(attemptStructured, "%v", err)
	}
	return wf, nil
}

func (o *Orchestrator) minimal(ctx context.Context, req models.DecomposeRequest) (models.Workflow, string, *oracle.Failure) {
	var answer minimalWorkflow
	raw, fail := oracle.Ask(ctx, o.oracle, oracle.Attempt{
		Name:    attemptMinimal,
		System:  minimalSystemPrompt,
		Prompt:  userPrompt(req),
		Timeout: o.timeout,
	}, &answer)
	if fail != nil {
		return models.Workflow{}, "", fail
	}

	wf, err := answer.toWorkflow()
	if err != nil {
		return models.Workflow{}, "", oracle.SchemaFailure(attemptMinimal, "%v", err)
	}
	return wf, raw, nil
}
