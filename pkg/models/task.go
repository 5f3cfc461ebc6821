package models

// Actor identifies who is responsible for carrying out a task.
type Actor string

const (
	// ActorAgent marks a task performed by an autonomous agent.
	ActorAgent Actor = "agent"
	// ActorHuman marks a task performed by a person.
	ActorHuman Actor = "human"
)

// Valid returns true if the actor is a known value.
func (a Actor) Valid() bool {
	switch a {
	case ActorAgent, ActorHuman:
		return true
	default:
		return false
	}
}

// Approval describes how the result of a task is signed off.
type Approval string

const (
	// ApprovalNone means the task result needs no sign-off.
	ApprovalNone Approval = "none"
	// ApprovalHuman means a person must approve the result.
	ApprovalHuman Approval = "human"
	// ApprovalAuto means the result is approved by an automated check.
	ApprovalAuto Approval = "auto"
)

// Valid returns true if the approval mode is a known value.
func (a Approval) Valid() bool {
	switch a {
	case ApprovalNone, ApprovalHuman, ApprovalAuto:
		return true
	default:
		return false
	}
}

// ToolUnassigned is the placeholder tool given to agent tasks when no
// concrete integration is known yet.
const ToolUnassigned = "unassigned"

// DefaultVersion is the version stamped on newly built workflows.
const DefaultVersion = "0.1"

// Task represents an atomic unit of work in a workflow.
type Task struct {
	// ID is unique within the workflow, conventionally T<n>.
	ID string `json:"id" yaml:"id"`
	// Title is the human-readable display name.
	Title string `json:"title" yaml:"title"`
	// Actor is the kind of owner responsible for the task.
	Actor Actor `json:"actor" yaml:"actor"`
	// DependsOn lists task IDs that must complete before this task.
	DependsOn []string `json:"depends_on" yaml:"depends_on"`
	// Inputs are the artifact names this task consumes.
	Inputs []string `json:"inputs" yaml:"inputs"`
	// Outputs are the artifact names this task produces.
	Outputs []string `json:"outputs" yaml:"outputs"`
	// Tool names the capability or integration an agent uses.
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`
	// Parameters is an opaque payload for agent tasks.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	// Approval is how the task result is signed off.
	Approval Approval `json:"approval" yaml:"approval"`
	// AcceptanceCriteria are objective checks for completion.
	AcceptanceCriteria []string `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	// Parallelizable is advisory: true only when the task can run alongside
	// other eligible tasks without sharing mutable artifacts.
	Parallelizable bool `json:"parallelizable" yaml:"parallelizable"`
}

// HasTool reports whether the task names a concrete tool.
func (t Task) HasTool() bool {
	return t.Tool != "" && t.Tool != ToolUnassigned
}

// Edge is a derived (dependency, dependent) pair.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Workflow is a titled, versioned collection of tasks. DependsOn on each
// task is the single source of truth for structure; Edges is a cache.
type Workflow struct {
	Title       string   `json:"title" yaml:"title"`
	Tasks       []Task   `json:"tasks" yaml:"tasks"`
	Version     string   `json:"version" yaml:"version"`
	Assumptions []string `json:"assumptions" yaml:"assumptions"`
	Edges       []Edge   `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// TaskIDs returns the task IDs in workflow order.
func (w *Workflow) TaskIDs() []string {
	ids := make([]string, len(w.Tasks))
	for i, t := range w.Tasks {
		ids[i] = t.ID
	}
	return ids
}

// Task returns the first task with the given ID, or nil.
func (w *Workflow) Task(id string) *Task {
	for i := range w.Tasks {
		if w.Tasks[i].ID == id {
			return &w.Tasks[i]
		}
	}
	return nil
}
