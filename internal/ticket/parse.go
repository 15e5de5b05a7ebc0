// Package ticket loads and persists the markdown ticket store: YAML
// frontmatter plus a markdown body with a title heading and optional
// sections.
package ticket

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clintrovert/ticketsync/pkg/types"
)

// frontmatter is the YAML header of a ticket file.
type frontmatter struct {
	ID          string    `yaml:"id"`
	Status      string    `yaml:"status"`
	Deps        []string  `yaml:"deps"`
	Links       []string  `yaml:"links"`
	Created     time.Time `yaml:"created"`
	Type        string    `yaml:"type"`
	Priority    *int      `yaml:"priority"`
	Assignee    string    `yaml:"assignee"`
	ExternalRef string    `yaml:"external-ref"`
	Parent      string    `yaml:"parent"`
	Tags        []string  `yaml:"tags"`
}

// Parse parses ticket file content into a record. The title comes from
// the first "# " heading; "## Design" and "## Acceptance Criteria"
// sections are captured separately; the "## Notes" section is private
// to the store and never leaves it.
func Parse(content []byte) (*types.Ticket, error) {
	front, body, err := splitFrontmatter(string(content))
	if err != nil {
		return nil, err
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if fm.ID == "" {
		return nil, fmt.Errorf("frontmatter has no id")
	}
	if fm.Status == "" {
		fm.Status = types.StatusOpen
	}
	if fm.Type == "" {
		fm.Type = types.TypeTask
	}
	priority := 2
	if fm.Priority != nil {
		priority = *fm.Priority
	}

	sections := splitBody(body)

	return &types.Ticket{
		ID:          fm.ID,
		Status:      fm.Status,
		Type:        fm.Type,
		Priority:    priority,
		Assignee:    fm.Assignee,
		Created:     fm.Created,
		Tags:        fm.Tags,
		Deps:        fm.Deps,
		Links:       fm.Links,
		Parent:      fm.Parent,
		ExternalRef: fm.ExternalRef,
		Title:       sections.title,
		Description: sections.description,
		Design:      sections.design,
		Acceptance:  sections.acceptance,
	}, nil
}

// splitFrontmatter separates the leading "---" delimited YAML header
// from the markdown body. Only the first delimiter pair counts; "---"
// lines later in the body (horizontal rules, code blocks) are body text.
func splitFrontmatter(content string) (front, body string, err error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return "", "", fmt.Errorf("no frontmatter found")
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", fmt.Errorf("unterminated frontmatter")
}

type bodySections struct {
	title       string
	description string
	design      string
	acceptance  string
}

// section targets while walking the body.
const (
	inDescription = iota
	inDesign
	inAcceptance
	inNotes
)

// splitBody extracts the title heading and routes body lines into the
// description and the recognized sections. Unrecognized "## " sections
// stay in the description, heading included, in their original order.
func splitBody(body string) bodySections {
	var s bodySections
	var description, design, acceptance []string
	target := inDescription
	sawTitle := false

	for _, line := range strings.Split(body, "\n") {
		if !sawTitle && strings.HasPrefix(line, "# ") {
			s.title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			sawTitle = true
			continue
		}
		if strings.HasPrefix(line, "## ") {
			heading := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			switch {
			case strings.EqualFold(heading, "Notes"):
				target = inNotes
			case strings.EqualFold(heading, "Design"):
				target = inDesign
			case strings.EqualFold(heading, "Acceptance Criteria"):
				target = inAcceptance
			default:
				target = inDescription
				description = append(description, line)
			}
			continue
		}
		switch target {
		case inDescription:
			description = append(description, line)
		case inDesign:
			design = append(design, line)
		case inAcceptance:
			acceptance = append(acceptance, line)
		case inNotes:
			// dropped
		}
	}

	if s.title == "" {
		s.title = "Untitled"
	}
	s.description = strings.TrimSpace(strings.Join(description, "\n"))
	s.design = strings.TrimSpace(strings.Join(design, "\n"))
	s.acceptance = strings.TrimSpace(strings.Join(acceptance, "\n"))
	return s
}
