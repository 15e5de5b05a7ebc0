package sync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketsync/internal/tracker"
	"github.com/clintrovert/ticketsync/pkg/types"
)

// Options configures a sync run.
type Options struct {
	// Project is the project board name or number. Empty disables
	// project integration entirely, including schema validation.
	Project string
	// TypeField is the project field holding the issue type.
	TypeField string
	// TypeMap maps ticket types to options of TypeField.
	TypeMap map[string]string
	// SyncLabels mirrors ticket tags onto remote labels.
	SyncLabels bool
	// CreateMissingLabels permits label creation during EnsureLabels.
	CreateMissingLabels bool
}

// RefWriter persists an external-ref back into a ticket's stored form.
// The engine requests the write; it never touches files itself.
type RefWriter interface {
	WriteExternalRef(t *types.Ticket, ref string) error
}

// Engine drives one sync run: it computes a SyncAction per ticket,
// executes the corresponding tracker mutations sequentially, and emits
// one Result per ticket. Tickets never overlap; cancellation is checked
// only at ticket boundaries.
type Engine struct {
	tracker tracker.Tracker
	refs    RefWriter
	opts    Options
	logger  *zap.Logger
}

// NewEngine creates a sync engine.
func NewEngine(tr tracker.Tracker, refs RefWriter, opts Options, logger *zap.Logger) *Engine {
	return &Engine{
		tracker: tr,
		refs:    refs,
		opts:    opts,
		logger:  logger,
	}
}

// Run syncs the working set. all is the full ticket store and is used to
// resolve dependency and parent references even when pushing a subset.
//
// The returned error is non-nil only for run-fatal conditions: loss of
// connectivity, an unresolvable project, or schema validation failure.
// All of those occur before the first mutation. Per-ticket failures are
// reported as ActionError results and do not stop the run.
func (e *Engine) Run(ctx context.Context, working, all []*types.Ticket) ([]Result, error) {
	prefix := e.tracker.RefPrefix()

	if _, err := e.tracker.RepositoryID(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach tracker: %w", err)
	}

	// Ticket ID -> issue number for every already-synced ticket in the
	// store. Creates made during this run are added as they land.
	refs := make(map[string]int)
	for _, t := range all {
		if n, ok, err := t.IssueNumber(prefix); ok && err == nil {
			refs[t.ID] = n
		}
	}

	project, err := e.resolveProject(ctx)
	if err != nil {
		return nil, err
	}

	ordered := orderWorkingSet(working, refs)

	results := make([]Result, 0, len(ordered))
	for _, t := range ordered {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		results = append(results, e.processTicket(ctx, t, refs, project))
	}
	return results, nil
}

// resolveProject resolves the configured project and validates the type
// mapping against its field schema. Both happen once, before any
// mutation. Returns (nil, nil) when no project is configured or the
// tracker has no project support.
func (e *Engine) resolveProject(ctx context.Context) (*types.Project, error) {
	if e.opts.Project == "" {
		return nil, nil
	}

	project, err := e.tracker.ResolveProject(ctx, e.opts.Project)
	if errors.Is(err, tracker.ErrUnsupported) {
		e.logger.Warn("tracker has no project support, skipping project integration",
			zap.String("project", e.opts.Project),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project %q: %w", e.opts.Project, err)
	}

	schema, err := e.tracker.ProjectFields(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project fields: %w", err)
	}
	if err := ValidateTypeMappings(schema, e.opts.TypeField, e.opts.TypeMap); err != nil {
		return nil, err
	}

	e.logger.Info("using project",
		zap.String("title", project.Title),
		zap.Int("number", project.Number),
	)
	return project, nil
}

// processTicket computes and executes the SyncAction for one ticket.
func (e *Engine) processTicket(ctx context.Context, t *types.Ticket, refs map[string]int, project *types.Project) Result {
	number, synced, err := t.IssueNumber(e.tracker.RefPrefix())
	if err != nil {
		return Result{TicketID: t.ID, Kind: ActionError, Reason: err.Error()}
	}
	if !synced {
		return e.create(ctx, t, refs, project)
	}
	return e.update(ctx, t, number, refs, project)
}

// create builds the issue body, creates the remote issue, writes the
// external-ref back through the store, and applies labels, project
// placement, and parent linkage.
func (e *Engine) create(ctx context.Context, t *types.Ticket, refs map[string]int, project *types.Project) Result {
	issue, err := e.tracker.CreateIssue(ctx, t.Title, FormatBody(t, refs))
	if err != nil {
		return Result{TicketID: t.ID, Kind: ActionError, Reason: fmt.Sprintf("failed to create issue: %v", err)}
	}

	res := Result{TicketID: t.ID, Kind: ActionCreate, IssueNumber: issue.Number, URL: issue.URL}

	ref := fmt.Sprintf("%s-%d", e.tracker.RefPrefix(), issue.Number)
	if err := e.refs.WriteExternalRef(t, ref); err != nil {
		res.Kind = ActionError
		res.Reason = fmt.Sprintf("created #%d but failed to write external-ref: %v", issue.Number, err)
		return res
	}
	refs[t.ID] = issue.Number

	e.logger.Info("created issue",
		zap.String("ticket", t.ID),
		zap.Int("number", issue.Number),
	)

	// A closed ticket's issue is closed immediately so a follow-up run
	// finds nothing to change.
	if DesiredState(t.Status) == types.IssueClosed {
		state := types.IssueClosed
		if err := e.tracker.UpdateIssue(ctx, issue.Number, tracker.IssueUpdate{State: &state}); err != nil {
			e.warn(&res, t, "failed to close issue", err)
		} else {
			res.Notes = append(res.Notes, "closed")
		}
	}

	e.applyLabels(ctx, t, issue.Number, &res)
	e.applyProject(ctx, t, issue, project, &res)
	e.linkParent(ctx, t, refs, &res)
	return res
}

// update fetches the remote snapshot, runs the conflict resolver, and
// issues a single update covering only the fields that differ.
func (e *Engine) update(ctx context.Context, t *types.Ticket, number int, refs map[string]int, project *types.Project) Result {
	existing, err := e.tracker.Issue(ctx, number)
	if errors.Is(err, tracker.ErrNotFound) {
		return Result{TicketID: t.ID, Kind: ActionError, IssueNumber: number,
			Reason: fmt.Sprintf("issue #%d not found", number)}
	}
	if err != nil {
		return Result{TicketID: t.ID, Kind: ActionError, IssueNumber: number,
			Reason: fmt.Sprintf("failed to fetch issue #%d: %v", number, err)}
	}

	switch resolution, reason := ResolveOwnership(t.ID, existing.Body); resolution {
	case ResolutionSkip:
		return Result{TicketID: t.ID, Kind: ActionSkip, IssueNumber: number, Reason: reason}
	case ResolutionConflict:
		return Result{TicketID: t.ID, Kind: ActionError, IssueNumber: number, Reason: reason}
	}

	res := Result{TicketID: t.ID, Kind: ActionUpdate, IssueNumber: number}

	var upd tracker.IssueUpdate
	if existing.Title != t.Title {
		title := t.Title
		upd.Title = &title
		res.Changes = append(res.Changes, "title updated")
	}
	if body := FormatBody(t, refs); existing.Body != body {
		upd.Body = &body
		res.Changes = append(res.Changes, "body updated")
	}
	if want := DesiredState(t.Status); existing.State != want {
		state := want
		upd.State = &state
		if want == types.IssueClosed {
			res.Changes = append(res.Changes, "closed")
		} else {
			res.Changes = append(res.Changes, "reopened")
		}
	}

	if !upd.Empty() {
		if err := e.tracker.UpdateIssue(ctx, number, upd); err != nil {
			return Result{TicketID: t.ID, Kind: ActionError, IssueNumber: number,
				Reason: fmt.Sprintf("failed to update issue #%d: %v", number, err)}
		}
		e.logger.Info("updated issue",
			zap.String("ticket", t.ID),
			zap.Int("number", number),
			zap.Strings("changes", res.Changes),
		)
	}

	e.applyLabels(ctx, t, number, &res)
	e.applyProject(ctx, t, existing, project, &res)
	e.linkParent(ctx, t, refs, &res)
	return res
}

// applyLabels mirrors ticket tags onto the issue's labels.
func (e *Engine) applyLabels(ctx context.Context, t *types.Ticket, number int, res *Result) {
	if !e.opts.SyncLabels || len(t.Tags) == 0 {
		return
	}
	if err := e.tracker.EnsureLabels(ctx, number, t.Tags, e.opts.CreateMissingLabels); err != nil {
		e.warn(res, t, "failed to apply labels", err)
	}
}

// applyProject places the issue on the project board and sets the type
// field from the configured mapping. Both calls are idempotent.
func (e *Engine) applyProject(ctx context.Context, t *types.Ticket, issue *types.RemoteIssue, project *types.Project, res *Result) {
	if project == nil {
		return
	}
	itemID, err := e.tracker.AddToProject(ctx, project, issue)
	if err != nil {
		e.warn(res, t, "failed to add issue to project", err)
		return
	}
	option, ok := e.opts.TypeMap[t.Type]
	if !ok {
		return
	}
	if err := e.tracker.SetFieldValue(ctx, project, itemID, e.opts.TypeField, option); err != nil {
		e.warn(res, t, "failed to set project field", err)
		return
	}
	res.Notes = append(res.Notes, fmt.Sprintf("project %q: %s = %s", project.Title, e.opts.TypeField, option))
}

// linkParent links the ticket's issue under its parent's issue. When the
// parent has no remote issue yet the linkage is reported as pending; the
// next push performs it once the parent has a reference.
func (e *Engine) linkParent(ctx context.Context, t *types.Ticket, refs map[string]int, res *Result) {
	if t.Parent == "" {
		return
	}
	parentNumber, ok := refs[t.Parent]
	if !ok {
		res.Notes = append(res.Notes, fmt.Sprintf("sub-issue link pending: parent %s not synced", t.Parent))
		return
	}
	childNumber := refs[t.ID]
	err := e.tracker.LinkSubIssue(ctx, parentNumber, childNumber)
	if errors.Is(err, tracker.ErrUnsupported) {
		return
	}
	if err != nil {
		e.warn(res, t, "failed to link sub-issue", err)
		return
	}
	res.Notes = append(res.Notes, fmt.Sprintf("linked as sub-issue of #%d", parentNumber))
}

// warn records a secondary failure on the result without changing the
// ticket's action.
func (e *Engine) warn(res *Result, t *types.Ticket, msg string, err error) {
	e.logger.Warn(msg, zap.String("ticket", t.ID), zap.Error(err))
	res.Notes = append(res.Notes, fmt.Sprintf("%s: %v", msg, err))
}

// orderWorkingSet reorders tickets so that a ticket whose parent is also
// in the working set and not yet synced comes after its parent. The
// relation is one level deep; repeated deferral passes settle chains.
// When no progress is possible (a parent cycle) the remaining tickets
// are emitted in their given order and their linkage reported pending.
func orderWorkingSet(working []*types.Ticket, refs map[string]int) []*types.Ticket {
	inSet := make(map[string]bool, len(working))
	for _, t := range working {
		inSet[t.ID] = true
	}

	out := make([]*types.Ticket, 0, len(working))
	emitted := make(map[string]bool, len(working))
	pending := working

	for len(pending) > 0 {
		var deferred []*types.Ticket
		progress := false
		for _, t := range pending {
			_, parentSynced := refs[t.Parent]
			if t.Parent != "" && inSet[t.Parent] && !emitted[t.Parent] && !parentSynced {
				deferred = append(deferred, t)
				continue
			}
			out = append(out, t)
			emitted[t.ID] = true
			progress = true
		}
		if !progress {
			out = append(out, deferred...)
			break
		}
		pending = deferred
	}
	return out
}
