package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

func agentTask(id, title, tool string, outputs ...string) models.Task {
	return models.Task{ID: id, Title: title, Actor: models.ActorAgent, Tool: tool, Inputs: []string{"in_" + id}, Outputs: outputs}
}

func humanTask(id, title string) models.Task {
	return models.Task{ID: id, Title: title, Actor: models.ActorHuman, Approval: models.ApprovalHuman}
}

func sampleWorkflow() models.Workflow {
	return models.Workflow{
		Title: "Inbox triage",
		Tasks: []models.Task{
			agentTask("T1", "Fetch new emails", "gmail", "email_messages"),
			agentTask("T2", "Summarize the thread", models.ToolUnassigned, "summary_report"),
			humanTask("T3", "Approve the summary"),
			agentTask("T4", "Summarize attachments", "", "attachment_summary"),
			humanTask("T5", "Sign the contract"),
			agentTask("T6", "Send replies", "gmail"),
		},
	}
}

func TestHeuristic_Roster(t *testing.T) {
	plan := Heuristic(sampleWorkflow())

	require.Len(t, plan.Agents, 2)
	assert.Equal(t, models.AgentSpec{
		ID:          "A1",
		Name:        "Gmail Agent",
		Description: "Handles gmail tasks across the workflow.",
		Skills:      []string{"gmail"},
		Tools:       []string{"gmail"},
	}, plan.Agents[0])
	assert.Equal(t, models.AgentSpec{
		ID:          "A2",
		Name:        "Summarization Agent",
		Description: "Handles summarization tasks across the workflow.",
		Skills:      []string{"summarization"},
		Tools:       []string{},
	}, plan.Agents[1])

	require.Len(t, plan.Humans, 2)
	assert.Equal(t, models.HumanSpec{ID: "H1", Name: "Human Reviewer", Description: "Human Reviewer participating across steps."}, plan.Humans[0])
	assert.Equal(t, models.HumanSpec{ID: "H2", Name: "Manager", Description: "Manager participating across steps."}, plan.Humans[1])
}

func TestHeuristic_Assignments(t *testing.T) {
	wf := sampleWorkflow()
	plan := Heuristic(wf)

	require.Len(t, plan.Assignments, len(wf.Tasks))
	owners := []string{"A1", "A2", "H2", "A2", "H1", "A1"}
	for i, a := range plan.Assignments {
		assert.Equal(t, wf.Tasks[i].ID, a.TaskID, "assignments follow task order")
		assert.Equal(t, owners[i], a.OwnerID, "owner of %s", a.TaskID)
	}

	assert.Equal(t, models.OwnerAgent, plan.Assignments[0].OwnerType)
	assert.Equal(t, "Perform: Fetch new emails. Use available tools to produce: email_messages.", plan.Assignments[0].Instructions)
	assert.Equal(t, "Perform: Send replies. Use available tools to produce: outputs.", plan.Assignments[5].Instructions)
	assert.Equal(t, models.OwnerHuman, plan.Assignments[2].OwnerType)
	assert.Equal(t, "Review/approve: Approve the summary. Ensure acceptance criteria met.", plan.Assignments[2].Instructions)

	assert.Equal(t, []string{"in_T1"}, plan.Assignments[0].Inputs)
	assert.Equal(t, []string{"email_messages"}, plan.Assignments[0].Outputs)
	assert.Equal(t, []string{}, plan.Assignments[2].Outputs)
}

func TestHeuristic_StableUnderReordering(t *testing.T) {
	wf := sampleWorkflow()
	reversed := wf
	reversed.Tasks = make([]models.Task, len(wf.Tasks))
	for i, task := range wf.Tasks {
		reversed.Tasks[len(wf.Tasks)-1-i] = task
	}

	a := Heuristic(wf)
	b := Heuristic(reversed)

	assert.Equal(t, a.Agents, b.Agents)
	assert.Equal(t, a.Humans, b.Humans)

	ownerOf := func(p models.AgenticPlan) map[string]string {
		m := make(map[string]string)
		for _, as := range p.Assignments {
			m[as.TaskID] = as.OwnerID
		}
		return m
	}
	assert.Equal(t, ownerOf(a), ownerOf(b))
}

func TestHeuristic_EmptyWorkflow(t *testing.T) {
	plan := Heuristic(models.Workflow{Title: "empty"})
	assert.Empty(t, plan.Agents)
	assert.Empty(t, plan.Humans)
	assert.Empty(t, plan.Assignments)
	assert.NotNil(t, plan.Agents)
}
