// Package github implements the tracker backend for GitHub Issues,
// including Projects v2 boards and sub-issue links via the GraphQL API.
package github

import (
	"context"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/clintrovert/ticketsync/internal/tracker"
)

const graphqlEndpoint = "https://api.github.com/graphql"

var _ tracker.Tracker = (*Client)(nil)

// Client talks to a single GitHub repository.
type Client struct {
	api        *gogithub.Client
	httpClient *http.Client
	graphqlURL string
	owner      string
	repo       string
	assignee   string
	logger     *zap.Logger

	// repoNodeID caches the repository's GraphQL node ID.
	repoNodeID string
	// fieldIDs caches project field and option IDs keyed by
	// "projectID/field/option", filled by ProjectFields.
	fieldIDs map[string]string
}

// NewClient creates a client for owner/repo authenticated with token.
// A non-empty assignee is applied to every created issue.
func NewClient(token, owner, repo, assignee string, logger *zap.Logger) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		api:        gogithub.NewClient(tc),
		httpClient: tc,
		graphqlURL: graphqlEndpoint,
		owner:      owner,
		repo:       repo,
		assignee:   assignee,
		logger:     logger,
		fieldIDs:   make(map[string]string),
	}
}

// RefPrefix returns the external-ref prefix this backend owns.
func (c *Client) RefPrefix() string {
	return "gh"
}

// RepositoryID resolves the repository and returns its node ID. It
// doubles as the connectivity and permission check before a sync.
func (c *Client) RepositoryID(ctx context.Context) (string, error) {
	if c.repoNodeID != "" {
		return c.repoNodeID, nil
	}
	repo, _, err := c.api.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return "", fmt.Errorf("failed to access %s/%s: %w", c.owner, c.repo, err)
	}
	c.repoNodeID = repo.GetNodeID()
	return c.repoNodeID, nil
}
