package gitremote

import (
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "git@github.com:acme/widgets.git", want: "acme/widgets"},
		{url: "git@github.com:acme/widgets", want: "acme/widgets"},
		{url: "ssh://git@github.com/acme/widgets.git", want: "acme/widgets"},
		{url: "https://github.com/acme/widgets.git", want: "acme/widgets"},
		{url: "https://github.com/acme/widgets", want: "acme/widgets"},
		{url: "https://github.com/acme/widgets/", want: "acme/widgets"},
		{url: "https://gitlab.com/acme/widgets.git", wantErr: true},
		{url: "git@github.com:acme", wantErr: true},
		{url: "https://github.com/", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseURL(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseURL(%q): expected error, got %q", tt.url, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseURL(%q): %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	if err != nil {
		t.Fatalf("create remote: %v", err)
	}

	got, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got != "acme/widgets" {
		t.Errorf("Detect = %q", got)
	}
}

func TestDetectNoRemote(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := Detect(dir); err == nil {
		t.Fatal("expected error when origin is missing")
	}
}
