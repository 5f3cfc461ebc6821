// Package graph provides structural checks for workflow task graphs.
package graph

import (
	"github.com/ShayCichocki/flowplan/pkg/models"
)

// CycleIssue is reported when the topological order does not cover every task.
const CycleIssue = "Cycle detected or missing dependencies."

// DependencyGraph is a read-only view of a task list's depends_on relation.
// Edges point from a dependency to its dependents.
type DependencyGraph struct {
	// ids holds distinct task IDs in first-seen order.
	ids []string
	// dependents maps task ID to the IDs of tasks that depend on it.
	dependents map[string][]string
	// indegree counts in-workflow dependencies per task ID.
	indegree map[string]int
	// taskCount is the raw number of tasks, duplicates included.
	taskCount int
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// Build constructs the graph from a task list. Dependencies that name a
// task outside the list are ignored here; Validate reports them.
func Build(tasks []models.Task) *DependencyGraph {
	g := &DependencyGraph{
		dependents: make(map[string][]string, len(tasks)),
		indegree:   make(map[string]int, len(tasks)),
		taskCount:  len(tasks),
		debugLog:   func(format string, args ...interface{}) {},
	}

	for _, t := range tasks {
		if _, seen := g.indegree[t.ID]; seen {
			continue
		}
		g.ids = append(g.ids, t.ID)
		g.indegree[t.ID] = 0
		g.dependents[t.ID] = nil
	}

	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if _, ok := g.indegree[dep]; !ok {
				continue
			}
			g.dependents[dep] = append(g.dependents[dep], t.ID)
			g.indegree[t.ID]++
		}
	}

	return g
}

// SetDebugLog sets the debug logging function.
func (g *DependencyGraph) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		g.debugLog = fn
	}
}

// TopologicalSort orders task IDs so every dependency precedes its
// dependents. It uses Kahn's algorithm with a FIFO frontier seeded in
// original task order, so unconstrained tasks keep their relative order.
// When the order is shorter than the task list a single cycle issue is
// returned along with the partial order.
func (g *DependencyGraph) TopologicalSort() ([]string, []string) {
	indeg := make(map[string]int, len(g.indegree))
	for id, d := range g.indegree {
		indeg[id] = d
	}

	queue := make([]string, 0, len(g.ids))
	for _, id := range g.ids {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.ids))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range g.dependents[id] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	var issues []string
	if len(order) < g.taskCount {
		g.debugLog("[graph.TopologicalSort] ordered %d of %d tasks", len(order), g.taskCount)
		issues = append(issues, CycleIssue)
	}
	return order, issues
}

// Size returns the number of distinct task IDs in the graph.
func (g *DependencyGraph) Size() int {
	return len(g.ids)
}

// GetDependents returns the IDs of tasks that depend on the given task.
func (g *DependencyGraph) GetDependents(taskID string) []string {
	return g.dependents[taskID]
}

// Check runs the topological sort and the validation pass over a workflow
// and returns the order together with every issue found.
func Check(wf *models.Workflow) ([]string, []string) {
	return CheckLogged(wf, nil)
}

// CheckLogged is Check with a debug logging function attached to the graph.
func CheckLogged(wf *models.Workflow, debugLog func(format string, args ...interface{})) ([]string, []string) {
	g := Build(wf.Tasks)
	g.SetDebugLog(debugLog)
	order, issues := g.TopologicalSort()
	issues = append(issues, Validate(wf)...)
	if issues == nil {
		issues = []string{}
	}
	return order, issues
}
