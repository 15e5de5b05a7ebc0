package main

import (
	"strings"
	"testing"

	"github.com/clintrovert/ticketsync/pkg/types"
)

func TestFilterTickets(t *testing.T) {
	all := []*types.Ticket{
		{ID: "nw-5c40"},
		{ID: "nw-5c46"},
		{ID: "nw-7a01"},
	}

	got := filterTickets(all, nil)
	if len(got) != 3 {
		t.Errorf("no filter: got %d tickets", len(got))
	}

	got = filterTickets(all, []string{"nw-5c46"})
	if len(got) != 1 || got[0].ID != "nw-5c46" {
		t.Errorf("exact: got %v", ids(got))
	}

	got = filterTickets(all, []string{"nw-5c"})
	if len(got) != 2 {
		t.Errorf("prefix: got %v", ids(got))
	}

	got = filterTickets(all, []string{"zz"})
	if len(got) != 0 {
		t.Errorf("miss: got %v", ids(got))
	}
}

func ids(tickets []*types.Ticket) []string {
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = t.ID
	}
	return out
}

func TestRenderConfigTemplate(t *testing.T) {
	full := renderConfigTemplate("acme/widgets", "Roadmap", "alice")
	for _, want := range []string{
		`repo = "acme/widgets"`,
		`project = "Roadmap"`,
		`assignee = "alice"`,
		`type_field = "Type"`,
		`bug = "Bug"`,
	} {
		if !strings.Contains(full, want) {
			t.Errorf("template missing %q", want)
		}
	}

	minimal := renderConfigTemplate("acme/widgets", "", "")
	if !strings.Contains(minimal, `# project =`) || !strings.Contains(minimal, `# assignee =`) {
		t.Errorf("optional settings not commented out:\n%s", minimal)
	}
}
