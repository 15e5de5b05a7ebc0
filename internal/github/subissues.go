package github

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// alreadyLinkedFragments are the error messages GitHub returns when a
// sub-issue link already exists. Those are treated as success.
var alreadyLinkedFragments = []string{
	"already a sub-issue",
	"is already a child",
	"already has this sub-issue",
	"duplicate sub-issues",
	"may only have one parent",
}

// LinkSubIssue makes child a sub-issue of parent. Linking an already
// linked pair is a no-op.
func (c *Client) LinkSubIssue(ctx context.Context, parentNumber, childNumber int) error {
	parentID, err := c.issueNodeID(ctx, parentNumber)
	if err != nil {
		return err
	}
	childID, err := c.issueNodeID(ctx, childNumber)
	if err != nil {
		return err
	}

	mutation := `
		mutation($input: AddSubIssueInput!) {
			addSubIssue(input: $input) {
				subIssue { id }
			}
		}`
	vars := map[string]any{
		"input": map[string]any{
			"issueId":    parentID,
			"subIssueId": childID,
		},
	}
	if err := c.graphql(ctx, mutation, vars, nil); err != nil {
		msg := strings.ToLower(err.Error())
		for _, fragment := range alreadyLinkedFragments {
			if strings.Contains(msg, fragment) {
				c.logger.Debug("sub-issue link already exists",
					zap.Int("parent", parentNumber),
					zap.Int("child", childNumber),
				)
				return nil
			}
		}
		return fmt.Errorf("failed to link #%d under #%d: %w", childNumber, parentNumber, err)
	}
	return nil
}

func (c *Client) issueNodeID(ctx context.Context, number int) (string, error) {
	issue, _, err := c.api.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return "", fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	return issue.GetNodeID(), nil
}
