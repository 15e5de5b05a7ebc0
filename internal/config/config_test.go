package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	content := `tracker = "github"

[github]
repo = "acme/widgets"
project = "Roadmap"
assignee = "alice"

[mapping]
type_field = "Kind"

[mapping.type]
bug = "Bug"
feature = "Enhancement"

[labels]
sync_tags = true
create_missing = false
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GitHub.Repo != "acme/widgets" || cfg.GitHub.Project != "Roadmap" {
		t.Errorf("github = %+v", cfg.GitHub)
	}
	if cfg.Mapping.TypeField != "Kind" {
		t.Errorf("type_field = %q", cfg.Mapping.TypeField)
	}
	if cfg.Mapping.Type["bug"] != "Bug" || cfg.Mapping.Type["feature"] != "Enhancement" {
		t.Errorf("type map = %v", cfg.Mapping.Type)
	}
	if !cfg.Labels.SyncTags || cfg.Labels.CreateMissing {
		t.Errorf("labels = %+v", cfg.Labels)
	}

	owner, repo, err := cfg.RepoParts()
	if err != nil {
		t.Fatalf("RepoParts: %v", err)
	}
	if owner != "acme" || repo != "widgets" {
		t.Errorf("RepoParts = %s, %s", owner, repo)
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tracker != "github" {
		t.Errorf("tracker = %q", cfg.Tracker)
	}
	if cfg.Mapping.TypeField != "Type" {
		t.Errorf("type_field = %q", cfg.Mapping.TypeField)
	}
	if !cfg.Labels.SyncTags || !cfg.Labels.CreateMissing {
		t.Errorf("labels = %+v", cfg.Labels)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("tracker = [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestRepoPartsRejectsBadValues(t *testing.T) {
	for _, repo := range []string{"", "acme", "/widgets", "acme/"} {
		cfg := &Config{GitHub: GitHub{Repo: repo}}
		if _, _, err := cfg.RepoParts(); err == nil {
			t.Errorf("RepoParts(%q): expected error", repo)
		}
	}
}

func TestFindTicketsDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TICKETS_DIR", dir)
	got, err := FindTicketsDir()
	if err != nil {
		t.Fatalf("FindTicketsDir: %v", err)
	}
	if got != dir {
		t.Errorf("got %q, want %q", got, dir)
	}
}

func TestFindTicketsDirWalksUp(t *testing.T) {
	root := t.TempDir()
	store := filepath.Join(root, TicketsDirName)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(store, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TICKETS_DIR", "")
	t.Chdir(nested)

	got, err := FindTicketsDir()
	if err != nil {
		t.Fatalf("FindTicketsDir: %v", err)
	}
	// macOS tempdirs resolve through symlinks; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(store)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("got %q, want %q", got, store)
	}
}
