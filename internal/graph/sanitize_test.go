package graph

import (
	"reflect"
	"testing"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

func TestSanitize(t *testing.T) {
	wf := &models.Workflow{Tasks: []models.Task{
		task("T1", "T1"),
		task("T2", "T1", "T9", "T1", "T2"),
		task("T3", "T2", "T1", "T2"),
	}}

	Sanitize(wf)

	want := [][]string{{}, {"T1"}, {"T2", "T1"}}
	for i, tk := range wf.Tasks {
		if !reflect.DeepEqual(tk.DependsOn, want[i]) {
			t.Errorf("task %s depends_on = %v, want %v", tk.ID, tk.DependsOn, want[i])
		}
	}

	wantEdges := []models.Edge{{From: "T1", To: "T2"}, {From: "T1", To: "T3"}, {From: "T2", To: "T3"}}
	if !reflect.DeepEqual(wf.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", wf.Edges, wantEdges)
	}
}

func TestSanitize_Invariants(t *testing.T) {
	inputs := [][]models.Task{
		{task("A", "A", "A"), task("B", "A", "C", "B", "A")},
		{task("T1", "T2"), task("T2", "T1", "T1"), task("T3", "x", "y")},
		{task("only", "missing")},
		nil,
	}

	for _, tasks := range inputs {
		wf := &models.Workflow{Tasks: tasks}
		Sanitize(wf)

		present := map[string]bool{}
		for _, tk := range wf.Tasks {
			present[tk.ID] = true
		}
		for _, tk := range wf.Tasks {
			seen := map[string]bool{}
			for _, d := range tk.DependsOn {
				if d == tk.ID {
					t.Errorf("task %s still depends on itself", tk.ID)
				}
				if seen[d] {
					t.Errorf("task %s has duplicate dependency %s", tk.ID, d)
				}
				if !present[d] {
					t.Errorf("task %s depends on absent %s", tk.ID, d)
				}
				seen[d] = true
			}
		}
	}
}

func TestSanitize_CycleSurvives(t *testing.T) {
	// Cycles are reported, not fixed.
	wf := &models.Workflow{Tasks: []models.Task{task("T1", "T2"), task("T2", "T1")}}
	Sanitize(wf)

	_, issues := Check(wf)
	if !contains(issues, CycleIssue) {
		t.Errorf("expected cycle issue after sanitize, got %v", issues)
	}
}

func TestEdges_OrderIndependent(t *testing.T) {
	a := []models.Task{task("T1"), task("T2", "T1"), task("T3", "T1", "T2")}
	b := []models.Task{task("T3", "T2", "T1"), task("T2", "T1"), task("T1")}

	if !reflect.DeepEqual(Edges(a), Edges(b)) {
		t.Errorf("Edges differ under reordering: %v vs %v", Edges(a), Edges(b))
	}
}
