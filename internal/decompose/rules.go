package decompose

import (
	"regexp"
	"strings"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

const (
	// maxTitleRunes caps a normalized task title.
	maxTitleRunes = 120
	// maxWorkflowTitleRunes caps a derived workflow title before "..." is added.
	maxWorkflowTitleRunes = 40
	// mediumSplitRunes is the length above which medium granularity splits a segment.
	mediumSplitRunes = 100
	// firstInput is the input artifact of the first heuristic task.
	firstInput = "project_requirements"
)

// defaultSkeleton is used when the source text yields no segments.
var defaultSkeleton = []string{
	"Understand the goal",
	"Identify stakeholders",
	"Draft plan",
	"Execute",
	"Review results",
}

// humanKeywords mark a fragment as work for a person.
var humanKeywords = []string{"review", "approve", "verify", "check", "validate", "decision", "judge"}

// artifactRule maps fragments mentioning any keyword to an output artifact.
type artifactRule struct {
	keywords []string
	artifact string
}

// artifactRules is ordered; the first rule with a matching keyword wins.
var artifactRules = []artifactRule{
	{keywords: []string{"extract", "parse"}, artifact: "extracted_data"},
	{keywords: []string{"email", "inbox"}, artifact: "email_messages"},
	{keywords: []string{"summar", "synthesi"}, artifact: "summary_report"},
	{keywords: []string{"draft", "write", "compose"}, artifact: "draft_document"},
	{keywords: []string{"review", "approve", "approval"}, artifact: "approval_decision"},
	{keywords: []string{"deploy", "release", "publish"}, artifact: "deployment_record"},
	{keywords: []string{"test"}, artifact: "test_results"},
	{keywords: []string{"schedule", "meeting", "calendar"}, artifact: "calendar_event"},
	{keywords: []string{"analy", "classif"}, artifact: "analysis_results"},
	{keywords: []string{"collect", "gather", "fetch", "retrieve"}, artifact: "collected_data"},
	{keywords: []string{"report"}, artifact: "report"},
}

var (
	// segmentBreak ends a segment after sentence punctuation, at newlines or
	// at semicolons. Group 1 captures punctuation that stays with the segment.
	segmentBreak = regexp.MustCompile(`([.!?])\s+|\n+|;\s+`)
	// clauseBreak splits a segment into finer fragments.
	clauseBreak = regexp.MustCompile(`(?i),| and | then `)
)

// segments splits source text into trimmed, non-empty sentence segments.
func segments(text string) []string {
	text = strings.TrimSpace(text)
	var out []string
	start := 0
	for _, m := range segmentBreak.FindAllStringSubmatchIndex(text, -1) {
		end := m[0]
		if m[2] >= 0 {
			end = m[3]
		}
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = m[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// fragments refines one segment according to granularity.
func fragments(segment string, g models.Granularity) []string {
	var parts []string
	switch g {
	case models.GranularityLow:
		return []string{segment}
	case models.GranularityHigh:
		parts = clauseBreak.Split(segment, -1)
	default:
		if len([]rune(segment)) <= mediumSplitRunes {
			return []string{segment}
		}
		parts = clauseBreak.Split(segment, 2)
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{segment}
	}
	return out
}

// normalizeTitle collapses whitespace and caps the length.
func normalizeTitle(s string) string {
	return truncateRunes(strings.Join(strings.Fields(s), " "), maxTitleRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// workflowTitle derives a title from the first fragment.
func workflowTitle(first string) string {
	if len([]rune(first)) > maxWorkflowTitleRunes {
		return truncateRunes(first, maxWorkflowTitleRunes) + "..."
	}
	return first
}

// classifyActor returns the actor and approval mode for a fragment.
func classifyActor(text string) (models.Actor, models.Approval) {
	lower := strings.ToLower(text)
	for _, k := range humanKeywords {
		if strings.Contains(lower, k) {
			return models.ActorHuman, models.ApprovalHuman
		}
	}
	return models.ActorAgent, models.ApprovalNone
}

// artifactFor names the output artifact of a fragment.
func artifactFor(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range artifactRules {
		for _, k := range rule.keywords {
			if strings.Contains(lower, k) {
				return rule.artifact
			}
		}
	}
	return fallbackArtifact(lower)
}

// fallbackArtifact builds <w1>_<w2>_<w3>_output from the leading words.
func fallbackArtifact(lower string) string {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return "task_output"
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, "_") + "_output"
}

// acceptanceFor generates the single objective check for a task.
func acceptanceFor(actor models.Actor, title string, outputs []string) []string {
	if actor == models.ActorHuman {
		return []string{"Decision recorded for: " + title}
	}
	return []string{"Produced " + strings.Join(outputs, ", ")}
}
