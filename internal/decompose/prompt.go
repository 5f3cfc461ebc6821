package decompose

import (
	"fmt"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// structuredSystemPrompt requests the full workflow shape.
const structuredSystemPrompt = `You are a workflow decomposition engine. Produce granular, dependency-aware workflows.

Return ONLY a JSON object with this exact structure (no code fences, no other text, no extra fields):
{
  "title": "Short workflow title",
  "version": "0.1",
  "assumptions": ["assumption made while decomposing"],
  "tasks": [
    {
      "id": "T1",
      "title": "Short imperative task title",
      "actor": "agent|human",
      "depends_on": ["T0"],
      "inputs": ["artifact_name"],
      "outputs": ["artifact_name"],
      "tool": "integration used by an agent task, empty for human tasks",
      "parameters": {},
      "approval": "none|human|auto",
      "acceptance_criteria": ["objective check"],
      "parallelizable": false
    }
  ]
}

Rules:
- Use task ids T1..Tn only; depends_on may only reference ids of other tasks in the list
- Dependencies must be acyclic
- Use empty array [] for depends_on if there are no dependencies
- Inputs of a task should be outputs of the tasks it depends on
- Use actor "human" for review, approval and judgement steps; "agent" otherwise
- Set parallelizable true only when the task has no unresolved dependency and shares no artifact with tasks that can run at the same time`

// minimalSystemPrompt requests the reduced shape after a failed attempt.
const minimalSystemPrompt = `You are a workflow decomposition engine. Return only valid JSON. Do not include code fences.
Output must match this minimal schema with only the fields shown:
{"title": "string", "tasks": [{"id": "T1", "title": "string", "depends_on": ["T0"]}]}
Use task ids T1..Tn only and keep dependencies acyclic.`

// userPrompt carries the source text, granularity hint and optional title.
func userPrompt(req models.DecomposeRequest) string {
	return fmt.Sprintf("Process: %s\nGranularity: %s.\nTitle: %s", req.Text, req.Granularity, req.Title)
}
