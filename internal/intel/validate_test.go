package intel

import (
	"sort"
	"strings"
	"testing"

	"github.com/future-hause/hause-gateway/internal/types"
)

func validPayload() types.IntelPayload {
	return types.IntelPayload{
		SourceType: "reddit",
		Project:    "futurehub",
		Content:    "Users asking about PSU sizing for Apollo BTC.",
	}
}

func TestValidate_Valid(t *testing.T) {
	result := Validate(validPayload())
	if !result.Valid() {
		t.Fatalf("expected valid, got %+v", result)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestValidate_ValidWithTimestamp(t *testing.T) {
	p := validPayload()
	p.Timestamp = "2026-03-14T12:00:00Z"
	if result := Validate(p); !result.Valid() {
		t.Errorf("expected valid, got %+v", result)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.IntelPayload)
		wantErr string
	}{
		{
			name:    "missing source type",
			mutate:  func(p *types.IntelPayload) { p.SourceType = "" },
			wantErr: "Missing required field: source_type",
		},
		{
			name:    "unknown source type",
			mutate:  func(p *types.IntelPayload) { p.SourceType = "twitter" },
			wantErr: "Invalid source_type: twitter",
		},
		{
			name:    "missing project",
			mutate:  func(p *types.IntelPayload) { p.Project = "" },
			wantErr: "Missing required field: project",
		},
		{
			name:    "unknown project",
			mutate:  func(p *types.IntelPayload) { p.Project = "skunkworks" },
			wantErr: "Invalid project: skunkworks",
		},
		{
			name:    "empty content",
			mutate:  func(p *types.IntelPayload) { p.Content = "   " },
			wantErr: "Missing required field: content",
		},
		{
			name:    "bad timestamp",
			mutate:  func(p *types.IntelPayload) { p.Timestamp = "yesterday" },
			wantErr: "Invalid timestamp format: yesterday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			result := Validate(p)
			if result.Valid() {
				t.Fatal("expected invalid")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error %q in %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	result := Validate(types.IntelPayload{})
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors for empty payload, got %v", result.Errors)
	}
}

func TestListSources_Sorted(t *testing.T) {
	sources := ListSources()
	if !sort.StringsAreSorted(sources) {
		t.Errorf("sources not sorted: %v", sources)
	}
	if len(sources) != 5 {
		t.Errorf("expected 5 source types, got %v", sources)
	}
}

func TestListProjects_Sorted(t *testing.T) {
	projects := ListProjects()
	if !sort.StringsAreSorted(projects) {
		t.Errorf("projects not sorted: %v", projects)
	}
	if len(projects) != 4 {
		t.Errorf("expected 4 projects, got %v", projects)
	}
}
