// Package auth resolves credentials for the remote tracker.
package auth

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// GitHubToken returns a GitHub token from GITHUB_TOKEN or GH_TOKEN,
// falling back to the gh CLI's stored credentials.
func GitHubToken() (string, error) {
	for _, key := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if tok := strings.TrimSpace(os.Getenv(key)); tok != "" {
			return tok, nil
		}
	}
	out, err := exec.Command("gh", "auth", "token").Output()
	if err == nil {
		if tok := strings.TrimSpace(string(out)); tok != "" {
			return tok, nil
		}
	}
	return "", fmt.Errorf("no GitHub token: set GITHUB_TOKEN or run 'gh auth login'")
}

// JiraToken returns the Jira API token from JIRA_API_TOKEN.
func JiraToken() (string, error) {
	if tok := strings.TrimSpace(os.Getenv("JIRA_API_TOKEN")); tok != "" {
		return tok, nil
	}
	return "", fmt.Errorf("no Jira token: set JIRA_API_TOKEN")
}
