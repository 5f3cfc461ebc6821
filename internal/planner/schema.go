package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// planAnswer is the strict shape requested from the oracle.
type planAnswer struct {
	Agents      []agentAnswer       `json:"agents"`
	Humans      []humanAnswer       `json:"humans"`
	Assignments *[]assignmentAnswer `json:"assignments"`
}

type agentAnswer struct {
	ID          *string  `json:"id"`
	Name        *string  `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Tools       []string `json:"tools"`
	// ParametersSchema arrives as a JSON-encoded string.
	ParametersSchema string `json:"parameters_schema"`
}

type humanAnswer struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Description string  `json:"description"`
}

type assignmentAnswer struct {
	TaskID       *string  `json:"task_id"`
	OwnerType    *string  `json:"owner_type"`
	OwnerID      *string  `json:"owner_id"`
	Instructions *string  `json:"instructions"`
	Inputs       []string `json:"inputs"`
	Outputs      []string `json:"outputs"`
}

// toPlan validates the answer against wf and converts it. A candidate is
// rejected unless every assignment points at an existing task and an
// existing owner of the matching type, and every task is assigned once.
func (p planAnswer) toPlan(wf models.Workflow) (models.AgenticPlan, error) {
	if p.Assignments == nil {
		return models.AgenticPlan{}, errors.New("missing required field: assignments")
	}

	plan := models.AgenticPlan{
		Agents:      make([]models.AgentSpec, 0, len(p.Agents)),
		Humans:      make([]models.HumanSpec, 0, len(p.Humans)),
		Assignments: make([]models.AssignedTask, 0, len(*p.Assignments)),
	}

	owners := make(map[string]models.OwnerType)
	for i, a := range p.Agents {
		if a.ID == nil || a.Name == nil {
			return models.AgenticPlan{}, fmt.Errorf("agents[%d]: missing required field: id or name", i)
		}
		if _, dup := owners[*a.ID]; dup {
			return models.AgenticPlan{}, fmt.Errorf("agents[%d]: duplicate owner id %q", i, *a.ID)
		}
		owners[*a.ID] = models.OwnerAgent
		plan.Agents = append(plan.Agents, models.AgentSpec{
			ID:               *a.ID,
			Name:             *a.Name,
			Description:      a.Description,
			Skills:           copyStrings(a.Skills),
			Tools:            copyStrings(a.Tools),
			ParametersSchema: decodeParametersSchema(a.ParametersSchema),
		})
	}
	for i, h := range p.Humans {
		if h.ID == nil || h.Name == nil {
			return models.AgenticPlan{}, fmt.Errorf("humans[%d]: missing required field: id or name", i)
		}
		if _, dup := owners[*h.ID]; dup {
			return models.AgenticPlan{}, fmt.Errorf("humans[%d]: duplicate owner id %q", i, *h.ID)
		}
		owners[*h.ID] = models.OwnerHuman
		plan.Humans = append(plan.Humans, models.HumanSpec{
			ID:          *h.ID,
			Name:        *h.Name,
			Description: h.Description,
		})
	}

	assigned := make(map[string]bool, len(wf.Tasks))
	for i, a := range *p.Assignments {
		switch {
		case a.TaskID == nil, a.OwnerType == nil, a.OwnerID == nil, a.Instructions == nil:
			return models.AgenticPlan{}, fmt.Errorf("assignments[%d]: missing required field", i)
		}

		task := wf.Task(*a.TaskID)
		if task == nil {
			return models.AgenticPlan{}, fmt.Errorf("assignments[%d]: unknown task %q", i, *a.TaskID)
		}
		if assigned[*a.TaskID] {
			return models.AgenticPlan{}, fmt.Errorf("assignments[%d]: task %q assigned more than once", i, *a.TaskID)
		}
		assigned[*a.TaskID] = true

		ownerType := models.OwnerType(strings.ToLower(*a.OwnerType))
		if !ownerType.Valid() {
			return models.AgenticPlan{}, fmt.Errorf("assignments[%d]: invalid owner_type %q", i, *a.OwnerType)
		}
		if got, ok := owners[*a.OwnerID]; !ok || got != ownerType {
			return models.AgenticPlan{}, fmt.Errorf("assignments[%d]: no %s owner %q", i, ownerType, *a.OwnerID)
		}

		inputs, outputs := a.Inputs, a.Outputs
		if inputs == nil {
			inputs = task.Inputs
		}
		if outputs == nil {
			outputs = task.Outputs
		}
		plan.Assignments = append(plan.Assignments, models.AssignedTask{
			TaskID:       *a.TaskID,
			OwnerType:    ownerType,
			OwnerID:      *a.OwnerID,
			Instructions: *a.Instructions,
			Inputs:       copyStrings(inputs),
			Outputs:      copyStrings(outputs),
		})
	}

	for _, t := range wf.Tasks {
		if !assigned[t.ID] {
			return models.AgenticPlan{}, fmt.Errorf("task %q has no assignment", t.ID)
		}
	}

	return plan, nil
}

// decodeParametersSchema turns the string-encoded schema into an object.
// Anything that is not a JSON object yields nil.
func decodeParametersSchema(s string) map[string]any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(s), &schema); err != nil {
		return nil
	}
	return schema
}
