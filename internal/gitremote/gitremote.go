// Package gitremote detects the GitHub repository a working tree
// belongs to from its origin remote.
package gitremote

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Detect opens the repository containing dir and returns the
// owner/repo pair parsed from the origin remote URL.
func Detect(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to find origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	ownerRepo, err := ParseURL(urls[0])
	if err != nil {
		return "", err
	}
	return ownerRepo, nil
}

// ParseURL extracts owner/repo from a GitHub remote URL in either the
// SSH (git@github.com:owner/repo.git) or HTTPS form.
func ParseURL(url string) (string, error) {
	var path string
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		path = strings.TrimPrefix(url, "git@github.com:")
	case strings.HasPrefix(url, "ssh://git@github.com/"):
		path = strings.TrimPrefix(url, "ssh://git@github.com/")
	case strings.HasPrefix(url, "https://github.com/"):
		path = strings.TrimPrefix(url, "https://github.com/")
	case strings.HasPrefix(url, "http://github.com/"):
		path = strings.TrimPrefix(url, "http://github.com/")
	default:
		return "", fmt.Errorf("remote %q is not a github.com URL", url)
	}
	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("cannot parse owner/repo from remote %q", url)
	}
	return parts[0] + "/" + parts[1], nil
}
