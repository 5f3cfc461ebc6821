// Package version exposes the flowplan release embedded at build time.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionContent string

// Get returns the current version, with whitespace trimmed
func Get() string {
	return strings.TrimSpace(versionContent)
}

// UserAgent identifies flowplan on outbound oracle requests.
func UserAgent() string {
	return "flowplan/" + Get()
}
