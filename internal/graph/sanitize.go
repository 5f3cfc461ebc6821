package graph

import (
	"sort"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Sanitize filters every task's dependencies down to IDs present in the
// workflow, drops self references and duplicates (first occurrence wins),
// then refreshes the derived edge cache. It is the only mutation a
// workflow goes through and must be applied exactly once per workflow.
func Sanitize(wf *models.Workflow) {
	present := make(map[string]bool, len(wf.Tasks))
	for _, t := range wf.Tasks {
		present[t.ID] = true
	}

	for i := range wf.Tasks {
		t := &wf.Tasks[i]
		kept := make([]string, 0, len(t.DependsOn))
		seen := make(map[string]bool, len(t.DependsOn))
		for _, d := range t.DependsOn {
			if !present[d] || d == t.ID || seen[d] {
				continue
			}
			seen[d] = true
			kept = append(kept, d)
		}
		t.DependsOn = kept
	}

	wf.Edges = Edges(wf.Tasks)
}

// Edges derives the distinct (dependency, dependent) pairs from depends_on,
// sorted by dependency then dependent.
func Edges(tasks []models.Task) []models.Edge {
	seen := make(map[models.Edge]bool)
	var edges []models.Edge
	for _, t := range tasks {
		for _, d := range t.DependsOn {
			e := models.Edge{From: d, To: t.ID}
			if seen[e] {
				continue
			}
			seen[e] = true
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}
