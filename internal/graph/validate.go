package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Validate reports structural defects as human-readable issues. It never
// fails; an empty result means no defect was found.
func Validate(wf *models.Workflow) []string {
	var issues []string

	seen := make(map[string]bool, len(wf.Tasks))
	dupSet := make(map[string]bool)
	for _, t := range wf.Tasks {
		if seen[t.ID] {
			dupSet[t.ID] = true
		}
		seen[t.ID] = true
	}
	if len(dupSet) > 0 {
		dups := make([]string, 0, len(dupSet))
		for id := range dupSet {
			dups = append(dups, id)
		}
		sort.Strings(dups)
		issues = append(issues, fmt.Sprintf("Duplicate task IDs: %s", strings.Join(dups, ", ")))
	}

	for _, t := range wf.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			issues = append(issues, fmt.Sprintf("Task %s has empty name", t.ID))
		}

		deps := make(map[string]bool, len(t.DependsOn))
		selfRef, dupDep := false, false
		for _, d := range t.DependsOn {
			if d == t.ID {
				selfRef = true
			}
			if deps[d] {
				dupDep = true
			}
			deps[d] = true
		}
		if selfRef {
			issues = append(issues, fmt.Sprintf("Task %s depends on itself", t.ID))
		}
		if dupDep {
			issues = append(issues, fmt.Sprintf("Task %s has duplicate dependencies", t.ID))
		}
		for _, d := range t.DependsOn {
			if !seen[d] {
				issues = append(issues, fmt.Sprintf("Task %s depends on missing %s", t.ID, d))
			}
		}
	}

	if len(wf.Tasks) == 0 {
		return issues
	}

	indeg := make(map[string]int, len(seen))
	outdeg := make(map[string]int, len(seen))
	for id := range seen {
		indeg[id] = 0
		outdeg[id] = 0
	}
	for _, t := range wf.Tasks {
		for _, d := range t.DependsOn {
			if !seen[d] {
				continue
			}
			indeg[t.ID]++
			outdeg[d]++
		}
	}

	hasSource, hasSink := false, false
	for id := range seen {
		if indeg[id] == 0 {
			hasSource = true
		}
		if outdeg[id] == 0 {
			hasSink = true
		}
	}
	if !hasSource {
		issues = append(issues, "No source tasks (indegree 0)")
	}
	if !hasSink {
		issues = append(issues, "No sink tasks (outdegree 0)")
	}

	return issues
}
