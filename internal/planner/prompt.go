package planner

import (
	"encoding/json"
	"fmt"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// systemPrompt describes the plan shape and grouping rules.
const systemPrompt = `You are designing an agentic execution plan.
- Group similar agent tasks into reusable agents (dedupe).
- Group human approval/review to the same human role when appropriate.
- For each task, assign owner_id (A# or H#) and write crisp instructions.
- Use existing task inputs/outputs; do not invent contradictory artifacts.

Return ONLY a JSON object with this exact structure (no code fences, no other text, no extra fields):
{
  "agents": [
    {"id": "A1", "name": "Summarization Agent", "description": "string", "skills": ["summarization"],
     "tools": ["tool_name"], "parameters_schema": "JSON schema encoded as a string, or empty"}
  ],
  "humans": [
    {"id": "H1", "name": "Manager", "description": "string"}
  ],
  "assignments": [
    {"task_id": "T1", "owner_type": "agent|human", "owner_id": "A1", "instructions": "string",
     "inputs": ["artifact_name"], "outputs": ["artifact_name"]}
  ]
}`

// planConstraints are appended to the task list.
const planConstraints = `Constraints:
- Minimize number of agents by capability merging (e.g., summarization -> single agent).
- Human roles should be distinct and not merged unless explicitly stated.
- Agent roles should have clear, distinct capabilities; don't create an agent with multiple roles.
- Human approvals for legal/contractual/irreversible actions should be explicit.
- Every task must be assigned exactly once; assignments must reference existing task_id values.
- owner_type must match the owner: agents are A1..An, humans are H1..Hm.`

// userPrompt embeds the finalized tasks as JSON.
func userPrompt(wf models.Workflow) (string, error) {
	tasks, err := json.Marshal(wf.Tasks)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return fmt.Sprintf("Workflow tasks (JSON):\n%s\n\n%s", tasks, planConstraints), nil
}
