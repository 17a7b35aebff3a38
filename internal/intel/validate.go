// Package intel handles raw intelligence coming in from collectors and
// turns it into perception signals and advisories. Validation always runs;
// nothing is stored unless ingestion is explicitly enabled.
package intel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/future-hause/hause-gateway/internal/types"
)

// Supported source types (authoritative).
var validSourceTypes = map[string]bool{
	"reddit":    true,
	"notes":     true,
	"external":  true,
	"freshdesk": true,
	"manual":    true,
}

// Supported projects (authoritative).
var validProjects = map[string]bool{
	"futurehub":    true,
	"freshdesk-ai": true,
	"help-nearby":  true,
	"other":        true,
}

// ValidationResult reports whether a payload is structurally valid.
type ValidationResult struct {
	Status string   `json:"status"`
	Errors []string `json:"errors"`
}

// Valid reports whether the payload passed validation.
func (r ValidationResult) Valid() bool { return r.Status == "valid" }

// Validate checks an intel payload's structure. It does not ingest, store,
// or process data.
func Validate(p types.IntelPayload) ValidationResult {
	var errs []string

	if p.SourceType == "" {
		errs = append(errs, "Missing required field: source_type")
	} else if !validSourceTypes[p.SourceType] {
		errs = append(errs, fmt.Sprintf("Invalid source_type: %s", p.SourceType))
	}

	if p.Project == "" {
		errs = append(errs, "Missing required field: project")
	} else if !validProjects[p.Project] {
		errs = append(errs, fmt.Sprintf("Invalid project: %s", p.Project))
	}

	if strings.TrimSpace(p.Content) == "" {
		errs = append(errs, "Missing required field: content")
	}

	if p.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, p.Timestamp); err != nil {
			errs = append(errs, fmt.Sprintf("Invalid timestamp format: %s", p.Timestamp))
		}
	}

	if len(errs) > 0 {
		return ValidationResult{Status: "invalid", Errors: errs}
	}
	return ValidationResult{Status: "valid", Errors: []string{}}
}

// ListSources returns the valid source types, sorted.
func ListSources() []string {
	return sortedKeys(validSourceTypes)
}

// ListProjects returns the valid projects, sorted.
func ListProjects() []string {
	return sortedKeys(validProjects)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
