package decompose

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// linearChainAssumption is recorded on every heuristic workflow.
const linearChainAssumption = "Generated heuristically: tasks form a single linear chain in source order; no parallel branches were inferred."

// Heuristic turns free text into a linear workflow without external calls.
// The result is a pure function of the request.
type Heuristic struct{}

// NewHeuristic creates a heuristic decomposer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Decompose builds a workflow from req. It never fails.
func (h *Heuristic) Decompose(req models.DecomposeRequest) models.Workflow {
	granularity := req.Granularity
	if !granularity.Valid() {
		granularity = models.GranularityMedium
	}

	segs := segments(req.Text)
	if len(segs) == 0 {
		segs = defaultSkeleton
	}

	var frags []string
	for _, s := range segs {
		frags = append(frags, fragments(s, granularity)...)
	}

	tasks := make([]models.Task, 0, len(frags))
	prevOutputs := []string{firstInput}
	for i, frag := range frags {
		title := normalizeTitle(frag)
		actor, approval := classifyActor(frag)
		outputs := []string{artifactFor(frag)}

		task := models.Task{
			ID:                 fmt.Sprintf("T%d", i+1),
			Title:              title,
			Actor:              actor,
			DependsOn:          []string{},
			Inputs:             append([]string(nil), prevOutputs...),
			Outputs:            outputs,
			Approval:           approval,
			AcceptanceCriteria: acceptanceFor(actor, title, outputs),
		}
		if actor == models.ActorAgent {
			task.Tool = models.ToolUnassigned
		}
		if i > 0 {
			task.DependsOn = []string{tasks[i-1].ID}
		}

		tasks = append(tasks, task)
		prevOutputs = outputs
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = workflowTitle(frags[0])
	}

	return models.Workflow{
		Title:       title,
		Tasks:       tasks,
		Version:     models.DefaultVersion,
		Assumptions: []string{linearChainAssumption},
	}
}
