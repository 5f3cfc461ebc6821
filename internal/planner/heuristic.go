package planner

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// Heuristic builds a plan by grouping tasks into reusable owners. Owner ids
// depend only on the set of distinct group keys, never on task order.
func Heuristic(wf models.Workflow) models.AgenticPlan {
	agentTools := make(map[string]map[string]bool)
	humanRoles := make(map[string]bool)

	for _, t := range wf.Tasks {
		if t.Actor == models.ActorAgent {
			key := agentKey(t)
			if agentTools[key] == nil {
				agentTools[key] = make(map[string]bool)
			}
			if t.HasTool() {
				agentTools[key][t.Tool] = true
			}
			continue
		}
		humanRoles[humanKey(t)] = true
	}

	plan := models.AgenticPlan{
		Agents:      []models.AgentSpec{},
		Humans:      []models.HumanSpec{},
		Assignments: make([]models.AssignedTask, 0, len(wf.Tasks)),
	}

	// Casers are stateful; one per call keeps Heuristic safe for concurrent use.
	caser := cases.Title(language.English)
	agentIDs := make(map[string]string, len(agentTools))
	for i, key := range sortedKeys(agentTools) {
		id := fmt.Sprintf("A%d", i+1)
		agentIDs[key] = id
		spaced := strings.ReplaceAll(key, "_", " ")
		plan.Agents = append(plan.Agents, models.AgentSpec{
			ID:          id,
			Name:        caser.String(spaced) + " Agent",
			Description: fmt.Sprintf("Handles %s tasks across the workflow.", spaced),
			Skills:      []string{key},
			Tools:       sortedKeys(agentTools[key]),
		})
	}

	humanIDs := make(map[string]string, len(humanRoles))
	for i, role := range sortedKeys(humanRoles) {
		id := fmt.Sprintf("H%d", i+1)
		humanIDs[role] = id
		disp := "Human Reviewer"
		if role == roleManager {
			disp = "Manager"
		}
		plan.Humans = append(plan.Humans, models.HumanSpec{
			ID:          id,
			Name:        disp,
			Description: disp + " participating across steps.",
		})
	}

	for _, t := range wf.Tasks {
		a := models.AssignedTask{
			TaskID:  t.ID,
			Inputs:  copyStrings(t.Inputs),
			Outputs: copyStrings(t.Outputs),
		}
		if t.Actor == models.ActorAgent {
			outputs := "outputs"
			if len(t.Outputs) > 0 {
				outputs = strings.Join(t.Outputs, ", ")
			}
			a.OwnerType = models.OwnerAgent
			a.OwnerID = agentIDs[agentKey(t)]
			a.Instructions = fmt.Sprintf("Perform: %s. Use available tools to produce: %s.", displayTitle(t), outputs)
		} else {
			a.OwnerType = models.OwnerHuman
			a.OwnerID = humanIDs[humanKey(t)]
			a.Instructions = fmt.Sprintf("Review/approve: %s. Ensure acceptance criteria met.", displayTitle(t))
		}
		plan.Assignments = append(plan.Assignments, a)
	}

	return plan
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyStrings(s []string) []string {
	return append([]string{}, s...)
}
