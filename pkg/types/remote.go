package types

import "strings"

// Remote issue states.
const (
	IssueOpen   = "open"
	IssueClosed = "closed"
)

// RemoteIssue is a transient snapshot of an issue fetched from the
// remote tracker. The remote system owns the record; snapshots are read
// at the start of a ticket's processing and never cached across tickets.
type RemoteIssue struct {
	// ID is the tracker's internal identifier (GraphQL node ID on GitHub).
	ID     string
	Number int
	Title  string
	Body   string
	State  string
	URL    string
	Labels []string
}

// Closed reports whether the issue is in the closed state.
func (i *RemoteIssue) Closed() bool {
	return i.State == IssueClosed
}

// Project is a handle to a remote project board.
type Project struct {
	ID     string
	Number int
	Title  string
}

// ProjectFieldSchema maps a project field name to its selectable option
// labels. Fetched once per run and read-only afterwards.
type ProjectFieldSchema map[string][]string

// Options returns the option labels of the named field, matching the
// field name case-insensitively.
func (s ProjectFieldSchema) Options(field string) ([]string, bool) {
	for name, opts := range s {
		if strings.EqualFold(name, field) {
			return opts, true
		}
	}
	return nil, false
}

// HasOption reports whether the named field offers the given option
// label. Both comparisons are case-insensitive.
func (s ProjectFieldSchema) HasOption(field, option string) bool {
	opts, ok := s.Options(field)
	if !ok {
		return false
	}
	for _, o := range opts {
		if strings.EqualFold(o, option) {
			return true
		}
	}
	return false
}
