// Package config loads sync settings from the sync.toml file kept
// alongside the tickets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// TicketsDirName is the directory the ticket store lives in.
const TicketsDirName = ".tickets"

// ConfigFileName is the sync configuration file inside the store.
const ConfigFileName = "sync.toml"

// GitHub holds the GitHub backend settings.
type GitHub struct {
	Repo     string `mapstructure:"repo"`
	Project  string `mapstructure:"project"`
	Assignee string `mapstructure:"assignee"`
}

// Jira holds the Jira backend settings.
type Jira struct {
	BaseURL  string `mapstructure:"base_url"`
	Username string `mapstructure:"username"`
	Project  string `mapstructure:"project"`
}

// Mapping maps ticket types onto a project board field.
type Mapping struct {
	TypeField string            `mapstructure:"type_field"`
	Type      map[string]string `mapstructure:"type"`
}

// Labels controls how ticket tags become tracker labels.
type Labels struct {
	SyncTags      bool `mapstructure:"sync_tags"`
	CreateMissing bool `mapstructure:"create_missing"`
}

// Config is the parsed sync.toml.
type Config struct {
	Tracker string  `mapstructure:"tracker"`
	GitHub  GitHub  `mapstructure:"github"`
	Jira    Jira    `mapstructure:"jira"`
	Mapping Mapping `mapstructure:"mapping"`
	Labels  Labels  `mapstructure:"labels"`
}

// RepoParts splits the configured owner/repo pair.
func (c *Config) RepoParts() (owner, repo string, err error) {
	parts := strings.SplitN(c.GitHub.Repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("github.repo must be owner/repo, got %q", c.GitHub.Repo)
	}
	return parts[0], parts[1], nil
}

// FindTicketsDir locates the ticket store: the TICKETS_DIR environment
// variable wins, otherwise walk up from the working directory looking
// for a .tickets directory.
func FindTicketsDir() (string, error) {
	if dir := os.Getenv("TICKETS_DIR"); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, TicketsDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	return "", fmt.Errorf("no %s directory found above %s", TicketsDirName, cwd)
}

// Load reads sync.toml from the ticket store directory. A missing file
// yields the defaults; a malformed one is an error.
func Load(ticketsDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(ticketsDir, ConfigFileName))
	v.SetConfigType("toml")

	v.SetDefault("tracker", "github")
	v.SetDefault("mapping.type_field", "Type")
	v.SetDefault("labels.sync_tags", true)
	v.SetDefault("labels.create_missing", true)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", v.ConfigFileUsed(), err)
	}
	return &cfg, nil
}
