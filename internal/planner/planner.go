// Package planner derives an agentic plan (a roster of owners plus one
// assignment per task) from a finalized workflow.
package planner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ShayCichocki/flowplan/internal/diag"
	"github.com/ShayCichocki/flowplan/internal/oracle"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

const attemptPlan = "plan"

// DefaultTimeout bounds the oracle attempt when none is configured.
const DefaultTimeout = 60 * time.Second

// Result is a finished plan plus advisory oracle diagnostics.
type Result struct {
	Plan        models.AgenticPlan
	Engine      models.Engine
	OracleError string
	// OracleRaw is the rejected oracle answer, if one was received.
	OracleRaw string
}

// Planner chooses between the oracle and the heuristic. Either the full
// oracle plan or the full heuristic plan is returned, never a mix.
type Planner struct {
	oracle  oracle.Oracle
	timeout time.Duration
}

// Option configures a Planner.
type Option func(*Planner)

// WithTimeout sets the oracle attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New creates a Planner. A nil oracle means heuristic only.
func New(o oracle.Oracle, opts ...Option) *Planner {
	p := &Planner{oracle: o, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan builds an agentic plan for wf, which must already be sanitized.
func (p *Planner) Plan(ctx context.Context, wf models.Workflow) Result {
	log := diag.FromContext(ctx).WithField("component", "planner")

	var res Result
	switch {
	case p.oracle == nil:
		log.Info("No oracle configured; using heuristic plan")
	case len(wf.Tasks) == 0:
		log.Info("Workflow has no tasks; using heuristic plan")
	default:
		plan, raw, fail := p.ask(ctx, wf)
		if fail == nil {
			res.Plan, res.Engine = plan, models.EngineOracleStructured
			log.WithFields(logrus.Fields{
				"engine": res.Engine,
				"agents": len(plan.Agents),
				"humans": len(plan.Humans),
			}).Info("Planning complete")
			return res
		}
		log.WithError(fail).Warn("Oracle plan rejected; falling back to heuristic")
		res.OracleError = oracle.Join([]*oracle.Failure{fail})
		res.OracleRaw = raw
	}

	res.Plan, res.Engine = Heuristic(wf), models.EngineHeuristic
	log.WithFields(logrus.Fields{
		"engine": res.Engine,
		"agents": len(res.Plan.Agents),
		"humans": len(res.Plan.Humans),
	}).Info("Planning complete")
	return res
}

func (p *Planner) ask(ctx context.Context, wf models.Workflow) (models.AgenticPlan, string, *oracle.Failure) {
	prompt, err := userPrompt(wf)
	if err != nil {
		return models.AgenticPlan{}, "", &oracle.Failure{Attempt: attemptPlan, Kind: oracle.KindMalformed, Err: err}
	}

	var answer planAnswer
	raw, fail := oracle.Ask(ctx, p.oracle, oracle.Attempt{
		Name:    attemptPlan,
		System:  systemPrompt,
		Prompt:  prompt,
		Timeout: p.timeout,
	}, &answer)
	if fail != nil {
		return models.AgenticPlan{}, raw, fail
	}

	plan, err := answer.toPlan(wf)
	if err != nil {
		return models.AgenticPlan{}, raw, oracle.SchemaFailure(attemptPlan, "%v", err)
	}
	return plan, "", nil
}
