package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGranularity is returned for unknown granularity values.
var ErrInvalidGranularity = errors.New("invalid granularity: must be low, medium, or high")

// Granularity controls how finely the heuristic decomposer splits text.
type Granularity string

const (
	// GranularityLow keeps each sentence as one task.
	GranularityLow Granularity = "low"
	// GranularityMedium splits only long sentences, once.
	GranularityMedium Granularity = "medium"
	// GranularityHigh splits every sentence at each conjunction marker.
	GranularityHigh Granularity = "high"
)

// Valid returns true if the granularity is a known value.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityLow, GranularityMedium, GranularityHigh:
		return true
	default:
		return false
	}
}

// ParseGranularity parses a granularity name. Empty input means medium.
func ParseGranularity(s string) (Granularity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return GranularityMedium, nil
	}
	g := Granularity(s)
	if !g.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidGranularity)
	}
	return g, nil
}
