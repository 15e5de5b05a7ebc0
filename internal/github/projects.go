package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/clintrovert/ticketsync/internal/tracker"
	"github.com/clintrovert/ticketsync/pkg/types"
)

type projectNode struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Number int    `json:"number"`
}

type projectConnection struct {
	Nodes []projectNode `json:"nodes"`
}

// ResolveProject finds a Projects v2 board by title or number,
// checking the repository's projects first and then the owner's
// (organization or user) projects.
func (c *Client) ResolveProject(ctx context.Context, nameOrNumber string) (*types.Project, error) {
	number, _ := strconv.Atoi(nameOrNumber)

	repoProjects, err := c.repoProjects(ctx)
	if err != nil {
		return nil, err
	}
	if p := matchProject(repoProjects, nameOrNumber, number); p != nil {
		return p, nil
	}

	ownerProjects, err := c.ownerProjects(ctx)
	if err != nil {
		return nil, err
	}
	if p := matchProject(ownerProjects, nameOrNumber, number); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("project %q for %s/%s: %w", nameOrNumber, c.owner, c.repo, tracker.ErrNotFound)
}

func (c *Client) repoProjects(ctx context.Context) ([]projectNode, error) {
	query := `
		query($owner: String!, $repo: String!) {
			repository(owner: $owner, name: $repo) {
				projectsV2(first: 50) {
					nodes { id title number }
				}
			}
		}`
	var resp struct {
		Repository *struct {
			ProjectsV2 projectConnection `json:"projectsV2"`
		} `json:"repository"`
	}
	vars := map[string]any{"owner": c.owner, "repo": c.repo}
	if err := c.graphql(ctx, query, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to list repository projects: %w", err)
	}
	if resp.Repository == nil {
		return nil, nil
	}
	return resp.Repository.ProjectsV2.Nodes, nil
}

func (c *Client) ownerProjects(ctx context.Context) ([]projectNode, error) {
	isOrg, err := c.isOrganization(ctx)
	if err != nil {
		return nil, err
	}

	field := "user"
	if isOrg {
		field = "organization"
	}
	query := fmt.Sprintf(`
		query($login: String!) {
			%s(login: $login) {
				projectsV2(first: 50) {
					nodes { id title number }
				}
			}
		}`, field)

	var resp map[string]*struct {
		ProjectsV2 projectConnection `json:"projectsV2"`
	}
	if err := c.graphql(ctx, query, map[string]any{"login": c.owner}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list %s projects: %w", field, err)
	}
	if owner := resp[field]; owner != nil {
		return owner.ProjectsV2.Nodes, nil
	}
	return nil, nil
}

func (c *Client) isOrganization(ctx context.Context) (bool, error) {
	query := `
		query($owner: String!, $repo: String!) {
			repository(owner: $owner, name: $repo) {
				owner { __typename }
			}
		}`
	var resp struct {
		Repository *struct {
			Owner struct {
				Typename string `json:"__typename"`
			} `json:"owner"`
		} `json:"repository"`
	}
	vars := map[string]any{"owner": c.owner, "repo": c.repo}
	if err := c.graphql(ctx, query, vars, &resp); err != nil {
		return false, fmt.Errorf("failed to resolve repository owner type: %w", err)
	}
	return resp.Repository != nil && resp.Repository.Owner.Typename == "Organization", nil
}

// matchProject prefers a number match over a case-insensitive title
// match, so a project literally titled "1" cannot shadow project #1.
func matchProject(projects []projectNode, name string, number int) *types.Project {
	if number > 0 {
		for _, p := range projects {
			if p.Number == number {
				return &types.Project{ID: p.ID, Number: p.Number, Title: p.Title}
			}
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Title, name) {
			return &types.Project{ID: p.ID, Number: p.Number, Title: p.Title}
		}
	}
	return nil
}

// ProjectFields returns the project's single-select fields and their
// options, and caches the node IDs needed by SetFieldValue.
func (c *Client) ProjectFields(ctx context.Context, project *types.Project) (types.ProjectFieldSchema, error) {
	query := `
		query($projectId: ID!) {
			node(id: $projectId) {
				... on ProjectV2 {
					fields(first: 50) {
						nodes {
							... on ProjectV2SingleSelectField {
								id
								name
								options { id name }
							}
						}
					}
				}
			}
		}`
	var resp struct {
		Node *struct {
			Fields struct {
				Nodes []struct {
					ID      string `json:"id"`
					Name    string `json:"name"`
					Options []struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"options"`
				} `json:"nodes"`
			} `json:"fields"`
		} `json:"node"`
	}
	if err := c.graphql(ctx, query, map[string]any{"projectId": project.ID}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list project fields: %w", err)
	}
	if resp.Node == nil {
		return nil, fmt.Errorf("project %q not found", project.Title)
	}

	schema := make(types.ProjectFieldSchema)
	for _, field := range resp.Node.Fields.Nodes {
		if field.ID == "" {
			// non-single-select fields come back as empty objects
			continue
		}
		c.fieldIDs[fieldKey(project.ID, field.Name, "")] = field.ID
		options := make([]string, 0, len(field.Options))
		for _, opt := range field.Options {
			options = append(options, opt.Name)
			c.fieldIDs[fieldKey(project.ID, field.Name, opt.Name)] = opt.ID
		}
		schema[field.Name] = options
	}
	return schema, nil
}

// AddToProject places an issue on the project board and returns the
// board item ID. Adding an issue that is already on the board returns
// the existing item.
func (c *Client) AddToProject(ctx context.Context, project *types.Project, issue *types.RemoteIssue) (string, error) {
	mutation := `
		mutation($input: AddProjectV2ItemByIdInput!) {
			addProjectV2ItemById(input: $input) {
				item { id }
			}
		}`
	vars := map[string]any{
		"input": map[string]any{
			"projectId": project.ID,
			"contentId": issue.ID,
		},
	}
	var resp struct {
		AddProjectV2ItemByID *struct {
			Item *struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	if err := c.graphql(ctx, mutation, vars, &resp); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "already in the project") || strings.Contains(msg, "already added") {
			return "", nil
		}
		return "", fmt.Errorf("failed to add issue #%d to project: %w", issue.Number, err)
	}
	if resp.AddProjectV2ItemByID == nil || resp.AddProjectV2ItemByID.Item == nil {
		return "", fmt.Errorf("no item returned when adding issue #%d to project", issue.Number)
	}
	return resp.AddProjectV2ItemByID.Item.ID, nil
}

// SetFieldValue sets a single-select field on a board item to the
// named option. ProjectFields must have been called for the project.
func (c *Client) SetFieldValue(ctx context.Context, project *types.Project, itemID, field, option string) error {
	if itemID == "" {
		return nil
	}
	fieldID, ok := c.fieldIDs[fieldKey(project.ID, field, "")]
	if !ok {
		return fmt.Errorf("project field %q not loaded", field)
	}
	optionID, ok := c.fieldIDs[fieldKey(project.ID, field, option)]
	if !ok {
		return fmt.Errorf("project field %q has no option %q", field, option)
	}

	mutation := `
		mutation($input: UpdateProjectV2ItemFieldValueInput!) {
			updateProjectV2ItemFieldValue(input: $input) {
				projectV2Item { id }
			}
		}`
	vars := map[string]any{
		"input": map[string]any{
			"projectId": project.ID,
			"itemId":    itemID,
			"fieldId":   fieldID,
			"value":     map[string]any{"singleSelectOptionId": optionID},
		},
	}
	if err := c.graphql(ctx, mutation, vars, nil); err != nil {
		return fmt.Errorf("failed to set %s = %s: %w", field, option, err)
	}
	return nil
}

func fieldKey(projectID, field, option string) string {
	return projectID + "/" + strings.ToLower(field) + "/" + strings.ToLower(option)
}
