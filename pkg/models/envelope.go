package models

// Engine labels which path produced a workflow or plan.
type Engine string

const (
	// EngineHeuristic is the deterministic, dependency-free path.
	EngineHeuristic Engine = "heuristic"
	// EngineOracleStructured is the oracle's full-schema answer.
	EngineOracleStructured Engine = "oracle-structured"
	// EngineOracleMinimal is the oracle's reduced-schema answer.
	EngineOracleMinimal Engine = "oracle-minimal-schema"
)

// DecomposeRequest asks for a workflow built from free text.
type DecomposeRequest struct {
	Text        string      `json:"text" yaml:"text"`
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	Granularity Granularity `json:"granularity,omitempty" yaml:"granularity,omitempty"`
}

// DecomposeResponse is the envelope returned for a decomposition.
type DecomposeResponse struct {
	Workflow  Workflow `json:"workflow" yaml:"workflow"`
	Mermaid   string   `json:"mermaid" yaml:"mermaid"`
	TopoOrder []string `json:"topo_order" yaml:"topo_order"`
	Issues    []string `json:"issues" yaml:"issues"`
	Engine    Engine   `json:"engine" yaml:"engine"`
	// OracleError and OracleRaw are diagnostics only.
	OracleError string `json:"oracle_error,omitempty" yaml:"oracle_error,omitempty"`
	OracleRaw   string `json:"oracle_raw,omitempty" yaml:"oracle_raw,omitempty"`
}

// PlanRequest asks for an agentic plan over a finished workflow.
type PlanRequest struct {
	Workflow Workflow `json:"workflow" yaml:"workflow"`
}

// PlanResponse is the envelope returned for a planning request.
type PlanResponse struct {
	AgenticPlan `yaml:",inline"`
	Engine      Engine `json:"engine" yaml:"engine"`
	OracleError string `json:"oracle_error,omitempty" yaml:"oracle_error,omitempty"`
	OracleRaw   string `json:"oracle_raw,omitempty" yaml:"oracle_raw,omitempty"`
}
