package sync

import (
	"fmt"
	"strings"

	"github.com/clintrovert/ticketsync/pkg/types"
)

const (
	markerOpen  = "<!-- ticket:"
	markerClose = " -->"
)

// Marker returns the ownership marker embedded in issue bodies to assert
// that the issue is managed by this tool and owned by the given ticket.
func Marker(ticketID string) string {
	return markerOpen + ticketID + markerClose
}

// ExtractMarker returns the ticket ID from the first ownership marker in
// a remote issue body, if one is present.
func ExtractMarker(body string) (string, bool) {
	start := strings.Index(body, markerOpen)
	if start < 0 {
		return "", false
	}
	rest := body[start+len(markerOpen):]
	end := strings.Index(rest, markerClose)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// Resolution is the conflict resolver's verdict for a synced ticket.
type Resolution int

const (
	// ResolutionUpdate means the issue is owned by this ticket and safe
	// to overwrite.
	ResolutionUpdate Resolution = iota
	// ResolutionSkip means the issue was modified outside the tool; no
	// mutation is issued.
	ResolutionSkip
	// ResolutionConflict means the external-ref is claimed by a
	// different ticket; the ticket fails with a mapping conflict.
	ResolutionConflict
)

// ResolveOwnership applies the marker decision table to a fetched remote
// issue body. It is a pure predicate over the body text; no other
// heuristic participates in conflict detection.
func ResolveOwnership(ticketID, remoteBody string) (Resolution, string) {
	owner, ok := ExtractMarker(remoteBody)
	if !ok {
		return ResolutionSkip, "modified outside tool"
	}
	if owner != ticketID {
		return ResolutionConflict, fmt.Sprintf("mapping conflict: issue is owned by ticket %q", owner)
	}
	return ResolutionUpdate, ""
}

// DesiredState maps a ticket status onto the remote issue state:
// open and in_progress map to open, closed maps to closed.
func DesiredState(status string) string {
	if status == types.StatusClosed {
		return types.IssueClosed
	}
	return types.IssueOpen
}
