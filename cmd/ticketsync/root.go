package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clintrovert/ticketsync/internal/auth"
	"github.com/clintrovert/ticketsync/internal/config"
	"github.com/clintrovert/ticketsync/internal/gitremote"
	"github.com/clintrovert/ticketsync/internal/github"
	"github.com/clintrovert/ticketsync/internal/jira"
	"github.com/clintrovert/ticketsync/internal/sync"
	"github.com/clintrovert/ticketsync/internal/ticket"
	"github.com/clintrovert/ticketsync/internal/tracker"
)

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ticketsync",
		Short:        "Push markdown tickets to a remote issue tracker",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newPushCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newInitCmd())
	return cmd
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// loadStore locates the ticket directory and loads its configuration.
func loadStore(logger *zap.Logger) (*config.Config, *ticket.Store, error) {
	dir, err := config.FindTicketsDir()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ticket.NewStore(dir, logger), nil
}

// buildTracker constructs the configured backend.
func buildTracker(cfg *config.Config, logger *zap.Logger) (tracker.Tracker, error) {
	switch cfg.Tracker {
	case "", "github":
		repo := cfg.GitHub.Repo
		if repo == "" {
			detected, err := gitremote.Detect(".")
			if err != nil {
				return nil, fmt.Errorf("github.repo not configured and no origin remote: %w", err)
			}
			cfg.GitHub.Repo = detected
		}
		owner, name, err := cfg.RepoParts()
		if err != nil {
			return nil, err
		}
		token, err := auth.GitHubToken()
		if err != nil {
			return nil, err
		}
		return github.NewClient(token, owner, name, cfg.GitHub.Assignee, logger), nil
	case "jira":
		if cfg.Jira.BaseURL == "" || cfg.Jira.Project == "" {
			return nil, fmt.Errorf("jira.base_url and jira.project must be configured")
		}
		token, err := auth.JiraToken()
		if err != nil {
			return nil, err
		}
		return jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Username, token, cfg.Jira.Project, logger)
	default:
		return nil, fmt.Errorf("unknown tracker %q", cfg.Tracker)
	}
}

func engineOptions(cfg *config.Config) sync.Options {
	return sync.Options{
		Project:             cfg.GitHub.Project,
		TypeField:           cfg.Mapping.TypeField,
		TypeMap:             cfg.Mapping.Type,
		SyncLabels:          cfg.Labels.SyncTags,
		CreateMissingLabels: cfg.Labels.CreateMissing,
	}
}

// trackerName names the sync target for user-facing output.
func trackerName(cfg *config.Config) string {
	if strings.EqualFold(cfg.Tracker, "jira") {
		return cfg.Jira.Project
	}
	return cfg.GitHub.Repo
}
