package decompose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Required fields are pointers so that a missing key can be told apart
// from an empty value.

// structuredWorkflow is the full answer shape requested from the oracle.
type structuredWorkflow struct {
	Title       *string           `json:"title"`
	Version     string            `json:"version"`
	Assumptions []string          `json:"assumptions"`
	Tasks       *[]structuredTask `json:"tasks"`
}

type structuredTask struct {
	ID                 *string        `json:"id"`
	Title              *string        `json:"title"`
	Actor              *string        `json:"actor"`
	DependsOn          *[]string      `json:"depends_on"`
	Inputs             []string       `json:"inputs"`
	Outputs            []string       `json:"outputs"`
	Tool               string         `json:"tool"`
	Parameters         map[string]any `json:"parameters"`
	Approval           string         `json:"approval"`
	AcceptanceCriteria []string       `json:"acceptance_criteria"`
	Parallelizable     bool           `json:"parallelizable"`
}

// minimalWorkflow is the reduced shape used for the retry.
type minimalWorkflow struct {
	Title *string        `json:"title"`
	Tasks *[]minimalTask `json:"tasks"`
}

type minimalTask struct {
	ID        *string   `json:"id"`
	Title     *string   `json:"title"`
	DependsOn *[]string `json:"depends_on"`
}

var errNoTasks = errors.New("tasks must not be empty")

// toWorkflow checks required fields and converts to the domain model.
func (s structuredWorkflow) toWorkflow() (models.Workflow, error) {
	if s.Title == nil {
		return models.Workflow{}, errors.New("missing required field: title")
	}
	if s.Tasks == nil {
		return models.Workflow{}, errors.New("missing required field: tasks")
	}
	if len(*s.Tasks) == 0 {
		return models.Workflow{}, errNoTasks
	}

	tasks := make([]models.Task, 0, len(*s.Tasks))
	for i, st := range *s.Tasks {
		switch {
		case st.ID == nil:
			return models.Workflow{}, fmt.Errorf("tasks[%d]: missing required field: id", i)
		case st.Title == nil:
			return models.Workflow{}, fmt.Errorf("tasks[%d]: missing required field: title", i)
		case st.Actor == nil:
			return models.Workflow{}, fmt.Errorf("tasks[%d]: missing required field: actor", i)
		case st.DependsOn == nil:
			return models.Workflow{}, fmt.Errorf("tasks[%d]: missing required field: depends_on", i)
		}

		actor := models.Actor(strings.ToLower(*st.Actor))
		if !actor.Valid() {
			return models.Workflow{}, fmt.Errorf("tasks[%d]: invalid actor %q", i, *st.Actor)
		}

		approval := models.Approval(strings.ToLower(st.Approval))
		switch {
		case st.Approval == "" && actor == models.ActorHuman:
			approval = models.ApprovalHuman
		case st.Approval == "":
			approval = models.ApprovalNone
		case !approval.Valid():
			return models.Workflow{}, fmt.Errorf("tasks[%d]: invalid approval %q", i, st.Approval)
		}

		task := models.Task{
			ID:                 *st.ID,
			Title:              *st.Title,
			Actor:              actor,
			DependsOn:          append([]string{}, *st.DependsOn...),
			Inputs:             nonNil(st.Inputs),
			Outputs:            nonNil(st.Outputs),
			Approval:           approval,
			AcceptanceCriteria: nonNil(st.AcceptanceCriteria),
			Parallelizable:     st.Parallelizable,
		}
		if actor == models.ActorAgent {
			task.Tool = st.Tool
			task.Parameters = st.Parameters
		}
		tasks = append(tasks, task)
	}

	version := s.Version
	if version == "" {
		version = models.DefaultVersion
	}

	return models.Workflow{
		Title:       *s.Title,
		Tasks:       tasks,
		Version:     version,
		Assumptions: nonNil(s.Assumptions),
	}, nil
}

// toWorkflow converts the reduced answer. Actor and approval come from the
// same keyword classifier as the heuristic path; outputs from the artifact
// table and inputs from the outputs of the task's dependencies.
func (m minimalWorkflow) toWorkflow() (models.Workflow, error) {
	if m.Title == nil {
		return models.Workflow{}, errors.New("missing required field: title")
	}
	if m.Tasks == nil {
		return models.Workflow{}, errors.New("missing required field: tasks")
	}
	if len(*m.Tasks) == 0 {
		return models.Workflow{}, errNoTasks
	}

	tasks := make([]models.Task, 0, len(*m.Tasks))
	outputsByID := make(map[string][]string, len(*m.Tasks))
	for i, mt := range *m.Tasks {
		switch {
		case mt.ID == nil:
			return models.Workflow{}, fmt.Errorf("tasks[%d]: missing required field: id", i)
		case mt.Title == nil:
			return models.Workflow{}, fmt.Errorf("tasks[%d]: missing required field: title", i)
		case mt.DependsOn == nil:
			return models.Workflow{}, fmt.Errorf("tasks[%d]: missing required field: depends_on", i)
		}

		actor, approval := classifyActor(*mt.Title)
		outputs := []string{artifactFor(*mt.Title)}
		if _, dup := outputsByID[*mt.ID]; !dup {
			outputsByID[*mt.ID] = outputs
		}

		task := models.Task{
			ID:                 *mt.ID,
			Title:              *mt.Title,
			Actor:              actor,
			DependsOn:          append([]string{}, *mt.DependsOn...),
			Outputs:            outputs,
			Approval:           approval,
			AcceptanceCriteria: acceptanceFor(actor, *mt.Title, outputs),
		}
		if actor == models.ActorAgent {
			task.Tool = models.ToolUnassigned
		}
		tasks = append(tasks, task)
	}

	for i := range tasks {
		inputs := []string{}
		seen := make(map[string]bool)
		for _, d := range tasks[i].DependsOn {
			if d == tasks[i].ID {
				continue
			}
			for _, out := range outputsByID[d] {
				if !seen[out] {
					seen[out] = true
					inputs = append(inputs, out)
				}
			}
		}
		if len(tasks[i].DependsOn) == 0 {
			inputs = []string{firstInput}
		}
		tasks[i].Inputs = inputs
	}

	return models.Workflow{
		Title:       *m.Title,
		Tasks:       tasks,
		Version:     models.DefaultVersion,
		Assumptions: []string{},
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
