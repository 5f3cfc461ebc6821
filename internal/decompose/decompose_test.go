package decompose

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ShayCichocki/flowplan/internal/diag"
	"github.com/ShayCichocki/flowplan/pkg/models"
)

type reply struct {
	text string
	err  error
}

// fakeOracle answers with scripted replies in order.
type fakeOracle struct {
	mu      sync.Mutex
	replies []reply
	systems []string
}

func (f *fakeOracle) Complete(_ context.Context, system, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systems = append(f.systems, system)
	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.text, r.err
}

func (f *fakeOracle) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.systems)
}

const structuredAnswer = `{
  "title": "Quarterly close",
  "version": "0.2",
  "assumptions": ["Finance owns the ledger"],
  "tasks": [
    {"id": "T1", "title": "Export ledger", "actor": "agent", "depends_on": ["T1", "T9"],
     "inputs": [], "outputs": ["ledger_csv"], "tool": "erp_api", "parameters": {"period": "Q3"},
     "approval": "none", "acceptance_criteria": ["CSV exported"], "parallelizable": true},
    {"id": "T2", "title": "Approve close", "actor": "human", "depends_on": ["T1", "T1"],
     "inputs": ["ledger_csv"], "outputs": ["signoff"], "tool": "", "parameters": {"x": 1},
     "approval": "human", "acceptance_criteria": ["Signed"], "parallelizable": false}
  ]
}`

const minimalAnswer = `{"title": "Release", "tasks": [
  {"id": "T1", "title": "Write release notes", "depends_on": []},
  {"id": "T2", "title": "Review release notes", "depends_on": ["T1", "T2", "T1"]}
]}`

func TestDecompose_NoOracle(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ctx := diag.WithLogger(context.Background(), logger)

	res := New(nil).Decompose(ctx, models.DecomposeRequest{Text: "Draft the proposal. Review and approve it."})

	if res.Engine != models.EngineHeuristic {
		t.Errorf("Engine = %q, want heuristic", res.Engine)
	}
	if res.OracleError != "" || res.OracleRaw != "" {
		t.Errorf("unexpected oracle diagnostics: %q / %q", res.OracleError, res.OracleRaw)
	}
	if len(res.Workflow.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(res.Workflow.Tasks))
	}
	if !reflect.DeepEqual(res.Workflow.Edges, []models.Edge{{From: "T1", To: "T2"}}) {
		t.Errorf("Edges = %v, want [T1->T2]", res.Workflow.Edges)
	}

	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			t.Errorf("missing oracle should not log at %s: %q", e.Level, e.Message)
		}
	}
}

func TestDecompose_Structured(t *testing.T) {
	fake := &fakeOracle{replies: []reply{{text: structuredAnswer}}}

	res := New(fake).Decompose(context.Background(), models.DecomposeRequest{Text: "close the quarter"})

	if res.Engine != models.EngineOracleStructured {
		t.Fatalf("Engine = %q, want oracle-structured (error: %s)", res.Engine, res.OracleError)
	}
	if fake.calls() != 1 {
		t.Errorf("oracle calls = %d, want 1", fake.calls())
	}
	if res.OracleError != "" {
		t.Errorf("OracleError = %q, want empty", res.OracleError)
	}

	wf := res.Workflow
	if wf.Title != "Quarterly close" || wf.Version != "0.2" {
		t.Errorf("Title/Version = %q/%q", wf.Title, wf.Version)
	}
	if len(wf.Tasks[0].DependsOn) != 0 {
		t.Errorf("T1 deps should be sanitized to empty, got %v", wf.Tasks[0].DependsOn)
	}
	if !reflect.DeepEqual(wf.Tasks[1].DependsOn, []string{"T1"}) {
		t.Errorf("T2 deps = %v, want [T1]", wf.Tasks[1].DependsOn)
	}
	if wf.Tasks[0].Tool != "erp_api" || wf.Tasks[0].Parameters["period"] != "Q3" {
		t.Errorf("agent tool/parameters not kept: %q %v", wf.Tasks[0].Tool, wf.Tasks[0].Parameters)
	}
	if wf.Tasks[1].Parameters != nil {
		t.Errorf("human task should carry no parameters, got %v", wf.Tasks[1].Parameters)
	}
	if !wf.Tasks[0].Parallelizable {
		t.Error("oracle parallelizable flag should be kept")
	}
}

func TestDecompose_CallerTitleOverridesOracle(t *testing.T) {
	fake := &fakeOracle{replies: []reply{{text: structuredAnswer}}}

	res := New(fake).Decompose(context.Background(), models.DecomposeRequest{Text: "x", Title: "Month end"})
	if res.Workflow.Title != "Month end" {
		t.Errorf("Title = %q, want Month end", res.Workflow.Title)
	}
}

func TestDecompose_FallsBackToMinimal(t *testing.T) {
	tests := []struct {
		name       string
		structured reply
		wantKind   string
	}{
		{"unknown field", reply{text: `{"title":"x","tasks":[],"owner":"me"}`}, "schema"},
		{"missing actor", reply{text: `{"title":"x","tasks":[{"id":"T1","title":"a","depends_on":[]}]}`}, "schema"},
		{"no tasks", reply{text: `{"title":"x","tasks":[]}`}, "schema"},
		{"prose", reply{text: "Sure! Here is your workflow."}, "malformed"},
		{"empty", reply{text: ""}, "empty"},
		{"transport", reply{err: errors.New("connection reset")}, "transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOracle{replies: []reply{tt.structured, {text: minimalAnswer}}}

			res := New(fake).Decompose(context.Background(), models.DecomposeRequest{Text: "ship it"})

			if res.Engine != models.EngineOracleMinimal {
				t.Fatalf("Engine = %q, want oracle-minimal-schema (error: %s)", res.Engine, res.OracleError)
			}
			if !strings.HasPrefix(res.OracleError, "structured attempt: "+tt.wantKind) {
				t.Errorf("OracleError = %q, want structured %s failure", res.OracleError, tt.wantKind)
			}
			if res.OracleRaw != minimalAnswer {
				t.Errorf("OracleRaw = %q, want the minimal answer", res.OracleRaw)
			}
			if fake.calls() != 2 {
				t.Errorf("oracle calls = %d, want 2", fake.calls())
			}
			if fake.systems[1] != minimalSystemPrompt {
				t.Error("second attempt should use the minimal prompt")
			}

			wf := res.Workflow
			if wf.Title != "Release" {
				t.Errorf("Title = %q", wf.Title)
			}
			if wf.Tasks[0].Actor != models.ActorAgent || wf.Tasks[0].Tool != models.ToolUnassigned {
				t.Errorf("T1 = %s/%q, want agent/unassigned", wf.Tasks[0].Actor, wf.Tasks[0].Tool)
			}
			if wf.Tasks[1].Actor != models.ActorHuman || wf.Tasks[1].Approval != models.ApprovalHuman {
				t.Errorf("T2 = %s/%s, want human/human", wf.Tasks[1].Actor, wf.Tasks[1].Approval)
			}
			if !reflect.DeepEqual(wf.Tasks[1].DependsOn, []string{"T1"}) {
				t.Errorf("T2 deps = %v, want [T1]", wf.Tasks[1].DependsOn)
			}
			if !reflect.DeepEqual(wf.Tasks[1].Inputs, wf.Tasks[0].Outputs) {
				t.Errorf("T2 inputs = %v, want T1 outputs %v", wf.Tasks[1].Inputs, wf.Tasks[0].Outputs)
			}
		})
	}
}

func TestDecompose_AllAttemptsFail(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ctx := diag.WithLogger(context.Background(), logger)
	fake := &fakeOracle{replies: []reply{
		{err: errors.New("dial tcp: timeout")},
		{text: `{"title": "x", "tasks": [{"id": "T1"}]}`},
	}}

	res := New(fake).Decompose(ctx, models.DecomposeRequest{
		Text:        "Draft the proposal. Review and approve it.",
		Granularity: models.GranularityMedium,
	})

	if res.Engine != models.EngineHeuristic {
		t.Errorf("Engine = %q, want heuristic", res.Engine)
	}
	if fake.calls() != 2 {
		t.Errorf("oracle calls = %d, want exactly 2", fake.calls())
	}
	if !strings.Contains(res.OracleError, "structured attempt: transport") ||
		!strings.Contains(res.OracleError, "minimal-schema attempt: schema") {
		t.Errorf("OracleError = %q, want both failures", res.OracleError)
	}
	if res.OracleRaw != "" {
		t.Errorf("OracleRaw = %q, want empty on heuristic path", res.OracleRaw)
	}
	plain := New(nil).Decompose(ctx, models.DecomposeRequest{
		Text:        "Draft the proposal. Review and approve it.",
		Granularity: models.GranularityMedium,
	})
	if !reflect.DeepEqual(res.Workflow, plain.Workflow) {
		t.Errorf("workflow after failed oracle differs from no-oracle workflow:\n got %+v\nwant %+v", res.Workflow, plain.Workflow)
	}

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	if warnings != 2 {
		t.Errorf("warnings logged = %d, want 2", warnings)
	}
}

type slowOracle struct{}

func (slowOracle) Complete(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestDecompose_PerAttemptTimeout(t *testing.T) {
	start := time.Now()
	res := New(slowOracle{}, WithTimeout(20*time.Millisecond)).Decompose(context.Background(), models.DecomposeRequest{Text: "do it"})

	if res.Engine != models.EngineHeuristic {
		t.Errorf("Engine = %q, want heuristic", res.Engine)
	}
	if !strings.Contains(res.OracleError, "deadline exceeded") {
		t.Errorf("OracleError = %q, want deadline errors", res.OracleError)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("attempts did not honour their timeout")
	}
}
