package sync

import (
	"fmt"
	"strings"

	"github.com/clintrovert/ticketsync/pkg/types"
)

// FormatBody renders the remote issue body for a ticket: ownership
// marker first, then the description and optional sections, a dependency
// reference line, and the attribution footer. refs maps ticket IDs to
// remote issue numbers; dependencies without a known number are omitted
// from the reference line and pick up their reference on a later push.
//
// The rendering is deterministic: an unchanged ticket always produces an
// identical body, which is what makes repeated runs no-ops.
func FormatBody(t *types.Ticket, refs map[string]int) string {
	var b strings.Builder
	b.WriteString(Marker(t.ID))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(t.Description))

	if t.Design != "" {
		b.WriteString("\n\n## Design\n\n")
		b.WriteString(strings.TrimSpace(t.Design))
	}
	if t.Acceptance != "" {
		b.WriteString("\n\n## Acceptance Criteria\n\n")
		b.WriteString(strings.TrimSpace(t.Acceptance))
	}

	if line := dependencyLine(t.Deps, refs); line != "" {
		b.WriteString("\n\n---\n")
		b.WriteString(line)
	}

	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "<sub>Synced from ticket `%s`</sub>", t.ID)
	return b.String()
}

// dependencyLine renders "**Depends on:** #12, #45" from the deps that
// have a known remote issue number, preserving declaration order.
// Returns "" when no dependency has a reference yet.
func dependencyLine(deps []string, refs map[string]int) string {
	var nums []string
	for _, dep := range deps {
		if n, ok := refs[dep]; ok {
			nums = append(nums, fmt.Sprintf("#%d", n))
		}
	}
	if len(nums) == 0 {
		return ""
	}
	return "**Depends on:** " + strings.Join(nums, ", ")
}
