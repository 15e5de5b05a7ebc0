package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/clintrovert/ticketsync/internal/tracker"
	"github.com/clintrovert/ticketsync/pkg/types"
)

// FlaggedTicket is a ticket that needs attention in the status view,
// with the issue number it points at and the reason it was flagged.
type FlaggedTicket struct {
	Ticket      *types.Ticket
	IssueNumber int
	Reason      string
}

// StatusReport classifies the ticket store against remote state without
// mutating anything.
type StatusReport struct {
	// Unsynced tickets have no external-ref; a push would create them.
	Unsynced []*types.Ticket
	// Synced tickets match their remote issue exactly.
	Synced []FlaggedTicket
	// Modified tickets differ from their remote issue; a push would
	// update them.
	Modified []FlaggedTicket
	// Conflicts are tickets whose remote issue is missing, unowned, or
	// owned by a different ticket, plus malformed external-refs.
	Conflicts []FlaggedTicket
	// Quick is set when remote state was not consulted; only the
	// unsynced/synced split is meaningful then.
	Quick bool
}

// Status computes the status report. With quick set, no remote calls
// are made and every ticket with an external-ref counts as synced.
func (e *Engine) Status(ctx context.Context, tickets []*types.Ticket, quick bool) (*StatusReport, error) {
	prefix := e.tracker.RefPrefix()
	report := &StatusReport{Quick: quick}

	refs := make(map[string]int)
	for _, t := range tickets {
		if n, ok, err := t.IssueNumber(prefix); ok && err == nil {
			refs[t.ID] = n
		}
	}

	for _, t := range tickets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		number, synced, err := t.IssueNumber(prefix)
		if err != nil {
			report.Conflicts = append(report.Conflicts, FlaggedTicket{Ticket: t, Reason: err.Error()})
			continue
		}
		if !synced {
			report.Unsynced = append(report.Unsynced, t)
			continue
		}
		if quick {
			report.Synced = append(report.Synced, FlaggedTicket{Ticket: t, IssueNumber: number})
			continue
		}

		existing, err := e.tracker.Issue(ctx, number)
		if errors.Is(err, tracker.ErrNotFound) {
			report.Conflicts = append(report.Conflicts, FlaggedTicket{
				Ticket: t, IssueNumber: number, Reason: fmt.Sprintf("issue #%d not found", number)})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
		}

		if resolution, reason := ResolveOwnership(t.ID, existing.Body); resolution != ResolutionUpdate {
			report.Conflicts = append(report.Conflicts, FlaggedTicket{Ticket: t, IssueNumber: number, Reason: reason})
			continue
		}

		switch {
		case existing.Title != t.Title:
			report.Modified = append(report.Modified, FlaggedTicket{Ticket: t, IssueNumber: number, Reason: "title changed"})
		case existing.Body != FormatBody(t, refs):
			report.Modified = append(report.Modified, FlaggedTicket{Ticket: t, IssueNumber: number, Reason: "body changed"})
		case existing.State != DesiredState(t.Status):
			report.Modified = append(report.Modified, FlaggedTicket{Ticket: t, IssueNumber: number, Reason: "state changed"})
		default:
			report.Synced = append(report.Synced, FlaggedTicket{Ticket: t, IssueNumber: number})
		}
	}
	return report, nil
}
