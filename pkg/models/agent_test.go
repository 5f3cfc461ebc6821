package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOwnerType_Valid(t *testing.T) {
	tests := []struct {
		owner OwnerType
		want  bool
	}{
		{OwnerAgent, true},
		{OwnerHuman, true},
		{OwnerType(""), false},
		{OwnerType("team"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.owner), func(t *testing.T) {
			if got := tt.owner.Valid(); got != tt.want {
				t.Errorf("OwnerType(%q).Valid() = %v, want %v", tt.owner, got, tt.want)
			}
		})
	}
}

func TestAgenticPlan_Lookup(t *testing.T) {
	plan := AgenticPlan{
		Agents: []AgentSpec{{ID: "A1", Name: "Summarization Agent"}},
		Humans: []HumanSpec{{ID: "H1", Name: "Manager"}},
	}

	if a := plan.Agent("A1"); a == nil || a.Name != "Summarization Agent" {
		t.Errorf("Agent(A1) = %+v", a)
	}
	if plan.Agent("A2") != nil {
		t.Error("Agent(A2) should be nil")
	}
	if h := plan.Human("H1"); h == nil || h.Name != "Manager" {
		t.Errorf("Human(H1) = %+v", h)
	}
	if plan.Human("A1") != nil {
		t.Error("Human(A1) should be nil")
	}
}

func TestPlanResponse_FlattensPlan(t *testing.T) {
	resp := PlanResponse{
		AgenticPlan: AgenticPlan{
			Agents:      []AgentSpec{{ID: "A1"}},
			Assignments: []AssignedTask{{TaskID: "T1", OwnerType: OwnerAgent, OwnerID: "A1"}},
		},
		Engine: EngineHeuristic,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"agents":[`) || !strings.Contains(s, `"assignments":[`) {
		t.Errorf("expected plan fields at top level, got %s", s)
	}
	if !strings.Contains(s, `"engine":"heuristic"`) {
		t.Errorf("expected engine label, got %s", s)
	}
	if strings.Contains(s, "oracle_error") {
		t.Errorf("empty oracle_error should be omitted, got %s", s)
	}
}
