package ticket

import (
	"strings"
	"testing"

	"github.com/clintrovert/ticketsync/pkg/types"
)

const minimalTicket = `---
id: nw-0001
---
# Minimal ticket
`

const fullTicket = `---
id: nw-5c46
status: in_progress
type: feature
priority: 1
assignee: alice
created: 2026-01-29T18:00:00Z
tags: [backend, auth]
deps: [nw-5c40, nw-5c41]
parent: nw-5c30
external-ref: gh-42
---
# Add token refresh

Refresh access tokens before they expire.

## Design

Use a background goroutine per session.

## Acceptance Criteria

- tokens refresh 5 minutes before expiry

## Notes

Tried a timer wheel first, too fiddly.
`

func TestParseMinimal(t *testing.T) {
	tk, err := Parse([]byte(minimalTicket))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tk.ID != "nw-0001" {
		t.Errorf("ID = %q", tk.ID)
	}
	if tk.Status != types.StatusOpen {
		t.Errorf("default status = %q, want open", tk.Status)
	}
	if tk.Type != types.TypeTask {
		t.Errorf("default type = %q, want task", tk.Type)
	}
	if tk.Priority != 2 {
		t.Errorf("default priority = %d, want 2", tk.Priority)
	}
	if tk.Title != "Minimal ticket" {
		t.Errorf("Title = %q", tk.Title)
	}
	if tk.ExternalRef != "" {
		t.Errorf("ExternalRef = %q, want empty", tk.ExternalRef)
	}
}

func TestParseFull(t *testing.T) {
	tk, err := Parse([]byte(fullTicket))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tk.Status != "in_progress" || tk.Type != "feature" || tk.Priority != 1 {
		t.Errorf("got status=%q type=%q priority=%d", tk.Status, tk.Type, tk.Priority)
	}
	if tk.Assignee != "alice" || tk.Parent != "nw-5c30" || tk.ExternalRef != "gh-42" {
		t.Errorf("got assignee=%q parent=%q ref=%q", tk.Assignee, tk.Parent, tk.ExternalRef)
	}
	if len(tk.Deps) != 2 || tk.Deps[0] != "nw-5c40" {
		t.Errorf("Deps = %v", tk.Deps)
	}
	if len(tk.Tags) != 2 || tk.Tags[1] != "auth" {
		t.Errorf("Tags = %v", tk.Tags)
	}
	if tk.Created.IsZero() {
		t.Error("Created not parsed")
	}
	if tk.Description != "Refresh access tokens before they expire." {
		t.Errorf("Description = %q", tk.Description)
	}
	if !strings.Contains(tk.Design, "background goroutine") {
		t.Errorf("Design = %q", tk.Design)
	}
	if !strings.Contains(tk.Acceptance, "5 minutes before expiry") {
		t.Errorf("Acceptance = %q", tk.Acceptance)
	}
}

func TestParseNotesNeverLeaveStore(t *testing.T) {
	tk, err := Parse([]byte(fullTicket))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for name, text := range map[string]string{
		"Description": tk.Description,
		"Design":      tk.Design,
		"Acceptance":  tk.Acceptance,
	} {
		if strings.Contains(text, "timer wheel") {
			t.Errorf("%s leaked notes content: %q", name, text)
		}
	}
}

func TestParseUnrecognizedSectionStaysInDescription(t *testing.T) {
	content := `---
id: nw-0002
---
# Ticket

Intro paragraph.

## Background

Some history.

## Notes

private

## Acceptance Criteria

- done
`
	tk, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(tk.Description, "## Background") || !strings.Contains(tk.Description, "Some history.") {
		t.Errorf("Description = %q", tk.Description)
	}
	if strings.Contains(tk.Description, "private") {
		t.Errorf("notes leaked into description: %q", tk.Description)
	}
	if tk.Acceptance != "- done" {
		t.Errorf("Acceptance = %q", tk.Acceptance)
	}
}

func TestParseMissingTitle(t *testing.T) {
	tk, err := Parse([]byte("---\nid: nw-0003\n---\nno heading here\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tk.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", tk.Title)
	}
}

func TestParseRejectsMissingFrontmatter(t *testing.T) {
	if _, err := Parse([]byte("# Just a heading\n")); err == nil {
		t.Fatal("expected error for missing frontmatter")
	}
	if _, err := Parse([]byte("---\nid: nw-0004\nno closing delimiter")); err == nil {
		t.Fatal("expected error for unterminated frontmatter")
	}
	if _, err := Parse([]byte("---\nstatus: open\n---\n# No ID\n")); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestParseIgnoresDelimitersInBody(t *testing.T) {
	content := "---\nid: nw-0005\n---\n# Ticket\n\nBefore rule.\n\n---\n\nAfter rule.\n"
	tk, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(tk.Description, "After rule.") {
		t.Errorf("body truncated at horizontal rule: %q", tk.Description)
	}
}
