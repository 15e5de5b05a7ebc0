package sync

import (
	"strings"
	"testing"

	"github.com/clintrovert/ticketsync/pkg/types"
)

func TestFormatBodyLayout(t *testing.T) {
	ticket := &types.Ticket{
		ID:          "nw-0001",
		Title:       "ignored here",
		Description: "The description.",
		Design:      "The design.",
		Acceptance:  "- [ ] works",
	}
	body := FormatBody(ticket, nil)

	if !strings.HasPrefix(body, Marker("nw-0001")) {
		t.Fatalf("body must start with the ownership marker:\n%s", body)
	}
	for _, want := range []string{
		"The description.",
		"## Design\n\nThe design.",
		"## Acceptance Criteria\n\n- [ ] works",
		"<sub>Synced from ticket `nw-0001`</sub>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestFormatBodyOmitsEmptySections(t *testing.T) {
	body := FormatBody(&types.Ticket{ID: "nw-0002", Description: "d"}, nil)
	if strings.Contains(body, "## Design") || strings.Contains(body, "## Acceptance Criteria") {
		t.Fatalf("empty sections must be omitted:\n%s", body)
	}
}

func TestDependencyLine(t *testing.T) {
	refs := map[string]int{"nw-a": 45, "nw-b": 67}
	tests := []struct {
		name string
		deps []string
		want string
	}{
		{"all resolved", []string{"nw-a", "nw-b"}, "**Depends on:** #45, #67"},
		{"unresolved dep omitted", []string{"nw-a", "nw-x"}, "**Depends on:** #45"},
		{"none resolved", []string{"nw-x", "nw-y"}, ""},
		{"no deps", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dependencyLine(tt.deps, refs); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatBodyDeterministic(t *testing.T) {
	ticket := &types.Ticket{
		ID: "nw-0003", Description: "d", Deps: []string{"nw-a"},
	}
	refs := map[string]int{"nw-a": 9}
	if FormatBody(ticket, refs) != FormatBody(ticket, refs) {
		t.Fatal("rendering must be deterministic")
	}
}
