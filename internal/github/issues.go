package github

import (
	"context"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/clintrovert/ticketsync/internal/tracker"
	"github.com/clintrovert/ticketsync/pkg/types"
)

// defaultLabelColor is used when creating labels that do not exist yet.
const defaultLabelColor = "ededed"

// Issue fetches an issue by number.
func (c *Client) Issue(ctx context.Context, number int) (*types.RemoteIssue, error) {
	issue, resp, err := c.api.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("issue #%d: %w", number, tracker.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	return remoteIssue(issue), nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(ctx context.Context, title, body string) (*types.RemoteIssue, error) {
	req := &gogithub.IssueRequest{
		Title: gogithub.String(title),
		Body:  gogithub.String(body),
	}
	if c.assignee != "" {
		req.Assignees = &[]string{c.assignee}
	}
	issue, _, err := c.api.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	c.logger.Debug("created issue",
		zap.Int("number", issue.GetNumber()),
		zap.String("title", title),
	)
	return remoteIssue(issue), nil
}

// UpdateIssue applies the non-nil fields of upd to an issue.
func (c *Client) UpdateIssue(ctx context.Context, number int, upd tracker.IssueUpdate) error {
	if upd.Empty() {
		return nil
	}
	req := &gogithub.IssueRequest{
		Title: upd.Title,
		Body:  upd.Body,
		State: upd.State,
	}
	if _, _, err := c.api.Issues.Edit(ctx, c.owner, c.repo, number, req); err != nil {
		return fmt.Errorf("failed to update issue #%d: %w", number, err)
	}
	return nil
}

// EnsureLabels attaches the named labels to an issue, creating any that
// the repository is missing when createMissing is set.
func (c *Client) EnsureLabels(ctx context.Context, number int, names []string, createMissing bool) error {
	if len(names) == 0 {
		return nil
	}
	for _, name := range names {
		_, resp, err := c.api.Issues.GetLabel(ctx, c.owner, c.repo, name)
		if err == nil {
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			return fmt.Errorf("failed to look up label %q: %w", name, err)
		}
		if !createMissing {
			return fmt.Errorf("label %q does not exist in %s/%s", name, c.owner, c.repo)
		}
		_, _, err = c.api.Issues.CreateLabel(ctx, c.owner, c.repo, &gogithub.Label{
			Name:  gogithub.String(name),
			Color: gogithub.String(defaultLabelColor),
		})
		if err != nil {
			return fmt.Errorf("failed to create label %q: %w", name, err)
		}
		c.logger.Debug("created label", zap.String("name", name))
	}
	if _, _, err := c.api.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, names); err != nil {
		return fmt.Errorf("failed to add labels to issue #%d: %w", number, err)
	}
	return nil
}

func remoteIssue(issue *gogithub.Issue) *types.RemoteIssue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}
	return &types.RemoteIssue{
		ID:     issue.GetNodeID(),
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
		Labels: labels,
	}
}
