// Package jira implements the tracker backend for Jira. Project board
// operations are not supported there; the sync engine degrades to
// plain issue syncing.
package jira

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketsync/internal/tracker"
	"github.com/clintrovert/ticketsync/pkg/types"
)

var _ tracker.Tracker = (*Client)(nil)

// Client wraps the Jira API for a single project.
type Client struct {
	client     *jira.Client
	projectKey string
	logger     *zap.Logger
}

// NewClient creates a client for the given Jira project.
func NewClient(baseURL, username, apiToken, projectKey string, logger *zap.Logger) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: username,
		Password: apiToken,
	}
	client, err := jira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}
	return &Client{
		client:     client,
		projectKey: projectKey,
		logger:     logger,
	}, nil
}

// RefPrefix returns the external-ref prefix this backend owns.
// External refs store the numeric part of the issue key, so PROJ-42
// round-trips as jira-42.
func (c *Client) RefPrefix() string {
	return "jira"
}

// RepositoryID verifies the project exists and returns its ID.
func (c *Client) RepositoryID(ctx context.Context) (string, error) {
	project, _, err := c.client.Project.GetWithContext(ctx, c.projectKey)
	if err != nil {
		return "", fmt.Errorf("failed to access jira project %s: %w", c.projectKey, err)
	}
	return project.ID, nil
}

func (c *Client) issueKey(number int) string {
	return fmt.Sprintf("%s-%d", c.projectKey, number)
}

// Issue fetches an issue by its number within the project.
func (c *Client) Issue(ctx context.Context, number int) (*types.RemoteIssue, error) {
	issue, resp, err := c.client.Issue.GetWithContext(ctx, c.issueKey(number), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("issue %s: %w", c.issueKey(number), tracker.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch issue %s: %w", c.issueKey(number), err)
	}
	return c.remoteIssue(issue), nil
}

// CreateIssue opens a new issue in the project.
func (c *Client) CreateIssue(ctx context.Context, title, body string) (*types.RemoteIssue, error) {
	issue, _, err := c.client.Issue.CreateWithContext(ctx, &jira.Issue{
		Fields: &jira.IssueFields{
			Project:     jira.Project{Key: c.projectKey},
			Type:        jira.IssueType{Name: "Task"},
			Summary:     title,
			Description: body,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	c.logger.Debug("created issue", zap.String("key", issue.Key))

	number, err := keyNumber(issue.Key)
	if err != nil {
		return nil, err
	}
	created, _, err := c.client.Issue.GetWithContext(ctx, issue.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created issue %s: %w", issue.Key, err)
	}
	remote := c.remoteIssue(created)
	remote.Number = number
	return remote, nil
}

// UpdateIssue applies the non-nil fields of upd, using a workflow
// transition for state changes.
func (c *Client) UpdateIssue(ctx context.Context, number int, upd tracker.IssueUpdate) error {
	key := c.issueKey(number)

	if upd.Title != nil || upd.Body != nil {
		fields := make(map[string]any)
		if upd.Title != nil {
			fields["summary"] = *upd.Title
		}
		if upd.Body != nil {
			fields["description"] = *upd.Body
		}
		_, err := c.client.Issue.UpdateIssueWithContext(ctx, key, map[string]any{"fields": fields})
		if err != nil {
			return fmt.Errorf("failed to update issue %s: %w", key, err)
		}
	}

	if upd.State != nil {
		if err := c.transition(ctx, key, *upd.State); err != nil {
			return err
		}
	}
	return nil
}

// transition moves the issue to a status whose category matches the
// requested open/closed state.
func (c *Client) transition(ctx context.Context, key, state string) error {
	wantCategory := "new"
	if state == types.IssueClosed {
		wantCategory = "done"
	}

	transitions, _, err := c.client.Issue.GetTransitionsWithContext(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get transitions for %s: %w", key, err)
	}
	var transitionID string
	for _, t := range transitions {
		if strings.EqualFold(t.To.StatusCategory.Key, wantCategory) {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		return fmt.Errorf("no transition to a %q status for %s", state, key)
	}
	if _, err := c.client.Issue.DoTransitionWithContext(ctx, key, transitionID); err != nil {
		return fmt.Errorf("failed to transition %s: %w", key, err)
	}
	return nil
}

// EnsureLabels sets labels on the issue. Jira labels are free-form, so
// createMissing has no effect.
func (c *Client) EnsureLabels(ctx context.Context, number int, names []string, createMissing bool) error {
	if len(names) == 0 {
		return nil
	}
	key := c.issueKey(number)
	_, err := c.client.Issue.UpdateIssueWithContext(ctx, key, map[string]any{
		"fields": map[string]any{"labels": names},
	})
	if err != nil {
		return fmt.Errorf("failed to set labels on %s: %w", key, err)
	}
	return nil
}

// ResolveProject is not supported on Jira.
func (c *Client) ResolveProject(ctx context.Context, nameOrNumber string) (*types.Project, error) {
	return nil, fmt.Errorf("jira board integration: %w", tracker.ErrUnsupported)
}

// ProjectFields is not supported on Jira.
func (c *Client) ProjectFields(ctx context.Context, project *types.Project) (types.ProjectFieldSchema, error) {
	return nil, fmt.Errorf("jira board integration: %w", tracker.ErrUnsupported)
}

// AddToProject is not supported on Jira.
func (c *Client) AddToProject(ctx context.Context, project *types.Project, issue *types.RemoteIssue) (string, error) {
	return "", fmt.Errorf("jira board integration: %w", tracker.ErrUnsupported)
}

// SetFieldValue is not supported on Jira.
func (c *Client) SetFieldValue(ctx context.Context, project *types.Project, itemID, field, option string) error {
	return fmt.Errorf("jira board integration: %w", tracker.ErrUnsupported)
}

// LinkSubIssue records the parent/child relation as a Relates link.
func (c *Client) LinkSubIssue(ctx context.Context, parentNumber, childNumber int) error {
	_, err := c.client.Issue.AddLinkWithContext(ctx, &jira.IssueLink{
		Type:         jira.IssueLinkType{Name: "Relates"},
		OutwardIssue: &jira.Issue{Key: c.issueKey(parentNumber)},
		InwardIssue:  &jira.Issue{Key: c.issueKey(childNumber)},
	})
	if err != nil {
		return fmt.Errorf("failed to link %s under %s: %w",
			c.issueKey(childNumber), c.issueKey(parentNumber), err)
	}
	return nil
}

func (c *Client) remoteIssue(issue *jira.Issue) *types.RemoteIssue {
	remote := &types.RemoteIssue{
		ID:    issue.ID,
		Title: issue.Fields.Summary,
		Body:  issue.Fields.Description,
		State: types.IssueOpen,
		URL:   issue.Self,
	}
	if n, err := keyNumber(issue.Key); err == nil {
		remote.Number = n
	}
	if issue.Fields.Status != nil &&
		strings.EqualFold(issue.Fields.Status.StatusCategory.Key, "done") {
		remote.State = types.IssueClosed
	}
	remote.Labels = append(remote.Labels, issue.Fields.Labels...)
	return remote
}

func keyNumber(key string) (int, error) {
	idx := strings.LastIndex(key, "-")
	if idx < 0 {
		return 0, fmt.Errorf("unexpected issue key %q", key)
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("unexpected issue key %q", key)
	}
	return n, nil
}
