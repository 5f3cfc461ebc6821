package render

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

func sample() models.Workflow {
	return models.Workflow{
		Title: "Proposal",
		Tasks: []models.Task{
			{ID: "T1", Title: "Draft the proposal.", Actor: models.ActorAgent},
			{ID: "T2", Title: "Review and approve it.", Actor: models.ActorHuman, DependsOn: []string{"T1"}},
		},
	}
}

func TestMermaid_Basic(t *testing.T) {
	got := Mermaid(sample(), TopDown)
	want := `graph TD
  T1["Draft the proposal."]
  T2(["Review and approve it."])
  T1 --> T2
  classDef agent fill:#e3f2fd,stroke:#1e88e5,color:#0d47a1
  classDef human fill:#fff3e0,stroke:#fb8c00,color:#e65100
  class T1 agent
  class T2 human
`
	if got != want {
		t.Errorf("Mermaid() =\n%s\nwant\n%s", got, want)
	}
}

func TestMermaid_Direction(t *testing.T) {
	if got := Mermaid(sample(), LeftRight); !strings.HasPrefix(got, "graph LR\n") {
		t.Errorf("expected LR header, got %q", strings.SplitN(got, "\n", 2)[0])
	}
	if got := Mermaid(sample(), ""); !strings.HasPrefix(got, "graph TD\n") {
		t.Errorf("expected TD default, got %q", strings.SplitN(got, "\n", 2)[0])
	}
}

func TestMermaid_EscapesLabels(t *testing.T) {
	wf := models.Workflow{Tasks: []models.Task{
		{ID: "T1", Title: "Say \"hi\"\nthen\tleave", Actor: models.ActorAgent},
		{ID: "T2", Title: "   ", Actor: models.ActorAgent},
	}}

	got := Mermaid(wf, TopDown)
	if !strings.Contains(got, `T1["Say #quot;hi#quot; then leave"]`) {
		t.Errorf("label not escaped:\n%s", got)
	}
	if !strings.Contains(got, `T2["T2"]`) {
		t.Errorf("blank title should fall back to id:\n%s", got)
	}
}

func TestMermaid_SanitizesIDs(t *testing.T) {
	wf := models.Workflow{Tasks: []models.Task{
		{ID: "step 1", Title: "a", Actor: models.ActorAgent},
		{ID: "step-2", Title: "b", Actor: models.ActorAgent, DependsOn: []string{"step 1"}},
	}}

	got := Mermaid(wf, TopDown)
	for _, want := range []string{`step_1["a"]`, `step-2["b"]`, "step_1 --> step-2"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestMermaid_DedupAndSort(t *testing.T) {
	wf := models.Workflow{Tasks: []models.Task{
		{ID: "T3", Title: "c", Actor: models.ActorAgent, DependsOn: []string{"T2", "T1", "T2"}},
		{ID: "T1", Title: "a", Actor: models.ActorAgent},
		{ID: "T2", Title: "b", Actor: models.ActorHuman, DependsOn: []string{"T1"}},
		{ID: "T1", Title: "duplicate", Actor: models.ActorHuman},
	}}

	got := Mermaid(wf, TopDown)

	if strings.Count(got, "T1[") != 1 || strings.Contains(got, "duplicate") {
		t.Errorf("duplicate id should render once:\n%s", got)
	}
	edges := "  T1 --> T2\n  T1 --> T3\n  T2 --> T3\n"
	if !strings.Contains(got, edges) {
		t.Errorf("edges not deduplicated and sorted:\n%s", got)
	}
	if !strings.Contains(got, "class T3,T1 agent\n") || !strings.Contains(got, "class T2 human\n") {
		t.Errorf("class lines wrong:\n%s", got)
	}
}

func TestMermaid_Deterministic(t *testing.T) {
	wf := sample()
	if Mermaid(wf, TopDown) != Mermaid(wf, TopDown) {
		t.Error("output should be identical for identical input")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", TopDown, false},
		{"td", TopDown, false},
		{" LR ", LeftRight, false},
		{"BT", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestMermaid_CollidingIDsStayDistinct(t *testing.T) {
	wf := models.Workflow{Tasks: []models.Task{
		{ID: "T 1", Title: "a", Actor: models.ActorAgent},
		{ID: "T_1", Title: "b", Actor: models.ActorAgent, DependsOn: []string{"T 1"}},
		{ID: "T3", Title: `Say "hi"`, Actor: models.ActorHuman, DependsOn: []string{"T_1"}},
	}}

	got := Mermaid(wf, TopDown)
	want := `graph TD
  T_1["a"]
  T_1_2["b"]
  T3(["Say #quot;hi#quot;"])
  T_1 --> T_1_2
  T_1_2 --> T3
  classDef agent fill:#e3f2fd,stroke:#1e88e5,color:#0d47a1
  classDef human fill:#fff3e0,stroke:#fb8c00,color:#e65100
  class T_1,T_1_2 agent
  class T3 human
`
	if got != want {
		t.Errorf("Mermaid() =\n%s\nwant\n%s", got, want)
	}
	if Mermaid(wf, TopDown) != got {
		t.Error("output is not deterministic")
	}
}
