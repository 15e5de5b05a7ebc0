package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ticket statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

// Ticket types.
const (
	TypeBug     = "bug"
	TypeFeature = "feature"
	TypeTask    = "task"
	TypeEpic    = "epic"
	TypeChore   = "chore"
)

// Ticket is a parsed ticket record from the ticket store. The store is
// authoritative; everything here is read-only for the sync engine except
// ExternalRef, which is written back through the store after a create.
type Ticket struct {
	// Path is the source file the ticket was parsed from.
	Path string

	ID       string
	Status   string
	Type     string
	Priority int
	Assignee string
	Created  time.Time

	// Tags become remote labels when label sync is enabled.
	Tags []string
	// Deps are ticket IDs this ticket depends on, in declaration order.
	Deps []string
	// Links are symmetric ticket relationships, not hierarchical.
	Links []string
	// Parent is the ticket ID this ticket is a sub-issue of, if any.
	Parent string

	// ExternalRef records the remote issue this ticket maps to,
	// e.g. "gh-123". Empty until the first successful create.
	ExternalRef string

	Title       string
	Description string
	// Design holds the "## Design" section body, if present.
	Design string
	// Acceptance holds the "## Acceptance Criteria" section body, if present.
	Acceptance string
}

// RefNumber parses an external-ref of the form "<prefix>-<number>".
// An empty ref returns (0, false, nil). A non-empty ref that does not
// match the recognized form returns an error.
func RefNumber(ref, prefix string) (int, bool, error) {
	if ref == "" {
		return 0, false, nil
	}
	rest, ok := strings.CutPrefix(ref, prefix+"-")
	if !ok {
		return 0, false, fmt.Errorf("malformed external-ref %q: expected %s-<number>", ref, prefix)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("malformed external-ref %q: expected %s-<number>", ref, prefix)
	}
	return n, true, nil
}

// IssueNumber returns the remote issue number recorded on the ticket.
// ok is false when the ticket has no external-ref; err is non-nil when
// the ref is present but malformed.
func (t *Ticket) IssueNumber(prefix string) (number int, ok bool, err error) {
	return RefNumber(t.ExternalRef, prefix)
}

// Synced reports whether the ticket carries a well-formed external-ref
// for the given tracker prefix.
func (t *Ticket) Synced(prefix string) bool {
	_, ok, err := RefNumber(t.ExternalRef, prefix)
	return ok && err == nil
}
