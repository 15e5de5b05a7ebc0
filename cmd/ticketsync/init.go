package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clintrovert/ticketsync/internal/config"
	"github.com/clintrovert/ticketsync/internal/gitremote"
)

func newInitCmd() *cobra.Command {
	var (
		repo     string
		project  string
		assignee string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .tickets directory with a sync.toml template",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := config.TicketsDirName
			path := filepath.Join(dir, config.ConfigFileName)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration already exists: %s (use --force to overwrite)", path)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.Mkdir(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
				fmt.Printf("Created %s/\n", dir)
			}

			if repo == "" {
				detected, err := gitremote.Detect(".")
				if err != nil {
					return fmt.Errorf("no --repo given and detection failed: %w", err)
				}
				repo = detected
				fmt.Printf("Detected repository: %s\n", repo)
			}
			if !strings.Contains(repo, "/") || strings.Count(repo, "/") != 1 {
				return fmt.Errorf("invalid repository format %q, expected owner/repo", repo)
			}

			content := renderConfigTemplate(repo, project, assignee)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("\nCreated %s\n\n", path)
			fmt.Println("Next steps:")
			if project == "" || assignee == "" {
				fmt.Printf("  1. Edit %s to customize settings\n", path)
				fmt.Println("  2. Run 'ticketsync push' to sync tickets")
			} else {
				fmt.Println("  1. Run 'ticketsync push' to sync tickets")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository as owner/repo (detected from origin if omitted)")
	cmd.Flags().StringVar(&project, "project", "", "GitHub Project to add issues to")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assign all created issues to this user")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing sync.toml")
	return cmd
}

func renderConfigTemplate(repo, project, assignee string) string {
	var b strings.Builder
	b.WriteString("[github]\n")
	fmt.Fprintf(&b, "repo = %q\n", repo)
	if project != "" {
		fmt.Fprintf(&b, "project = %q\n", project)
	} else {
		b.WriteString("# project = \"Project Name\"  # Optional: GitHub Project to add issues to\n")
	}
	if assignee != "" {
		fmt.Fprintf(&b, "assignee = %q\n", assignee)
	} else {
		b.WriteString("# assignee = \"username\"  # Optional: assign all issues to this user\n")
	}
	b.WriteString(`
[mapping]
type_field = "Type"  # Project field name for ticket type

[mapping.type]
bug = "Bug"
feature = "Feature"
task = "Task"
epic = "Epic"
chore = "Chore"

[labels]
sync_tags = true  # Sync ticket tags as tracker labels
create_missing = true  # Create labels that don't exist
`)
	return b.String()
}
