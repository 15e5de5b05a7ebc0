// Package sync implements the orchestration engine that projects ticket
// records onto a remote issue tracker: per-ticket action computation,
// ownership-marker conflict resolution, project field schema validation,
// and the ordered execution of remote mutations.
package sync

// ActionKind is the decision computed for a ticket before any mutation.
type ActionKind int

const (
	// ActionCreate creates a new remote issue for an unsynced ticket.
	ActionCreate ActionKind = iota
	// ActionUpdate reconciles an already-synced ticket with its issue.
	ActionUpdate
	// ActionSkip leaves the remote issue untouched, with a reason.
	ActionSkip
	// ActionError records a per-ticket failure; the run continues.
	ActionError
)

// String returns the report label for the action.
func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "CREATE"
	case ActionUpdate:
		return "UPDATE"
	case ActionSkip:
		return "SKIP"
	case ActionError:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of syncing one ticket. One Result is emitted per
// ticket in working-set order; it is the only channel through which
// progress is observable.
type Result struct {
	TicketID string
	Kind     ActionKind

	// IssueNumber is set for create and update outcomes.
	IssueNumber int
	// URL is set when a new issue was created.
	URL string

	// Reason explains a skip or error.
	Reason string

	// Changes lists the fields mutated by an update ("title updated",
	// "closed", ...). Empty for an update that found nothing to change.
	Changes []string

	// Notes carries secondary outcomes: labels attached, project board
	// placement, sub-issue links made or pending.
	Notes []string
}

// Summary aggregates the results of a run.
type Summary struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

// Summarize counts results by action kind.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Kind {
		case ActionCreate:
			s.Created++
		case ActionUpdate:
			s.Updated++
		case ActionSkip:
			s.Skipped++
		case ActionError:
			s.Failed++
		}
	}
	return s
}
