// Package tracker defines the capability surface of a remote issue
// tracker. The sync engine only ever talks to this interface;
// implementations own the network calls and any retry policy.
package tracker

import (
	"context"
	"errors"

	"github.com/clintrovert/ticketsync/pkg/types"
)

// ErrNotFound indicates the requested issue or project does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnsupported indicates the backend does not implement an operation.
// The engine degrades gracefully: project integration is disabled when
// project operations are unsupported.
var ErrUnsupported = errors.New("operation not supported by tracker")

// IssueUpdate carries the fields to change on an existing issue.
// Nil fields are left untouched.
type IssueUpdate struct {
	Title *string
	Body  *string
	// State is types.IssueOpen or types.IssueClosed.
	State *string
}

// Empty reports whether the update would change nothing.
func (u IssueUpdate) Empty() bool {
	return u.Title == nil && u.Body == nil && u.State == nil
}

// Tracker abstracts the remote issue tracking service.
type Tracker interface {
	// RefPrefix returns the external-ref prefix this tracker owns,
	// e.g. "gh" for GitHub.
	RefPrefix() string

	// RepositoryID returns an opaque identifier for the target
	// repository or project space. Called once per run; a failure here
	// is treated as loss of connectivity and aborts the run.
	RepositoryID(ctx context.Context) (string, error)

	// Issue fetches an issue snapshot by number. Returns ErrNotFound
	// when no such issue exists.
	Issue(ctx context.Context, number int) (*types.RemoteIssue, error)

	// CreateIssue creates an issue and returns it with its assigned
	// number.
	CreateIssue(ctx context.Context, title, body string) (*types.RemoteIssue, error)

	// UpdateIssue applies only the provided fields to an existing issue.
	UpdateIssue(ctx context.Context, number int, upd IssueUpdate) error

	// EnsureLabels attaches the named labels to an issue. Missing labels
	// are created when createMissing is true, otherwise a missing label
	// is an error.
	EnsureLabels(ctx context.Context, number int, names []string, createMissing bool) error

	// ResolveProject finds a project board by name or number. Returns
	// ErrNotFound when nothing matches.
	ResolveProject(ctx context.Context, nameOrNumber string) (*types.Project, error)

	// ProjectFields fetches the project's field schema.
	ProjectFields(ctx context.Context, project *types.Project) (types.ProjectFieldSchema, error)

	// AddToProject adds an issue to a project board and returns the
	// board item ID. Idempotent: adding an issue already on the board
	// succeeds and returns its existing item.
	AddToProject(ctx context.Context, project *types.Project, issue *types.RemoteIssue) (string, error)

	// SetFieldValue sets a single-select field on a project item to the
	// named option.
	SetFieldValue(ctx context.Context, project *types.Project, itemID, field, option string) error

	// LinkSubIssue links the child issue under the parent issue.
	// Idempotent: linking an existing parent/child pair succeeds.
	LinkSubIssue(ctx context.Context, parentNumber, childNumber int) error
}
