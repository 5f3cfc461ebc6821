package planner

import (
	"strings"

	"github.com/ShayCichocki/flowplan/pkg/models"
)

// genericCapability is used when a title has no usable words.
const genericCapability = "generic"

// Human role keys.
const (
	roleManager      = "manager"
	roleGeneralHuman = "general_human"
)

// capabilityRule maps any matching word to a capability category.
type capabilityRule struct {
	category string
	words    []string
}

// capabilityRules is ordered; the first rule with a matching word wins.
var capabilityRules = []capabilityRule{
	{category: "summarization", words: []string{"summarize", "summary", "summarization", "synthesize"}},
	{category: "review_approval", words: []string{"review", "approve", "approval", "validate", "check"}},
	{category: "data_extraction", words: []string{"extract", "parse", "analyze", "classify"}},
	{category: "content_generation", words: []string{"generate", "write", "draft", "compose"}},
	{category: "deployment", words: []string{"deploy", "release", "publish"}},
	{category: "testing", words: []string{"test", "verify"}},
	{category: "api_integration", words: []string{"fetch", "retrieve", "get", "call", "api"}},
}

// managerKeywords route a human task to the manager role.
var managerKeywords = []string{"approve", "approval", "review"}

var punctuation = strings.NewReplacer(",", " ", ".", " ", ":", " ", ";", " ")

// capabilityKey derives a normalized capability from a task title.
func capabilityKey(title string) string {
	var words []string
	for _, w := range strings.Fields(punctuation.Replace(strings.ToLower(title))) {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return genericCapability
	}

	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[w] = true
	}
	for _, rule := range capabilityRules {
		for _, w := range rule.words {
			if present[w] {
				return rule.category
			}
		}
	}
	return words[0]
}

// agentKey groups agent tasks: a concrete tool wins over the title.
func agentKey(t models.Task) string {
	if t.HasTool() {
		return t.Tool
	}
	return capabilityKey(displayTitle(t))
}

// humanKey puts a human task in one of two role buckets.
func humanKey(t models.Task) string {
	lower := strings.ToLower(t.Title)
	for _, k := range managerKeywords {
		if strings.Contains(lower, k) {
			return roleManager
		}
	}
	return roleGeneralHuman
}

func displayTitle(t models.Task) string {
	if strings.TrimSpace(t.Title) != "" {
		return t.Title
	}
	return t.ID
}
