package models

// OwnerType identifies the kind of owner an assignment points at.
type OwnerType string

const (
	// OwnerAgent points at an AgentSpec.
	OwnerAgent OwnerType = "agent"
	// OwnerHuman points at a HumanSpec.
	OwnerHuman OwnerType = "human"
)

// Valid returns true if the owner type is a known value.
func (o OwnerType) Valid() bool {
	switch o {
	case OwnerAgent, OwnerHuman:
		return true
	default:
		return false
	}
}

// AgentSpec describes a reusable autonomous agent.
type AgentSpec struct {
	// ID is A<n>, unique within a plan.
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Skills      []string `json:"skills" yaml:"skills"`
	Tools       []string `json:"tools" yaml:"tools"`
	// ParametersSchema is an optional JSON schema for agent parameters.
	ParametersSchema map[string]any `json:"parameters_schema,omitempty" yaml:"parameters_schema,omitempty"`
}

// HumanSpec describes a human role.
type HumanSpec struct {
	// ID is H<n>, unique within a plan.
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// AssignedTask binds one workflow task to one owner.
type AssignedTask struct {
	TaskID       string    `json:"task_id" yaml:"task_id"`
	OwnerType    OwnerType `json:"owner_type" yaml:"owner_type"`
	OwnerID      string    `json:"owner_id" yaml:"owner_id"`
	Instructions string    `json:"instructions" yaml:"instructions"`
	Inputs       []string  `json:"inputs" yaml:"inputs"`
	Outputs      []string  `json:"outputs" yaml:"outputs"`
}

// AgenticPlan is a roster of owners plus a per-task assignment.
type AgenticPlan struct {
	Agents      []AgentSpec    `json:"agents" yaml:"agents"`
	Humans      []HumanSpec    `json:"humans" yaml:"humans"`
	Assignments []AssignedTask `json:"assignments" yaml:"assignments"`
}

// Agent returns the agent with the given ID, or nil.
func (p *AgenticPlan) Agent(id string) *AgentSpec {
	for i := range p.Agents {
		if p.Agents[i].ID == id {
			return &p.Agents[i]
		}
	}
	return nil
}

// Human returns the human role with the given ID, or nil.
func (p *AgenticPlan) Human(id string) *HumanSpec {
	for i := range p.Humans {
		if p.Humans[i].ID == id {
			return &p.Humans[i]
		}
	}
	return nil
}
