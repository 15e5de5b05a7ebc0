package ticket

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketsync/pkg/types"
)

// Store reads and writes tickets under a .tickets directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// LoadAll parses every ticket file in the store, sorted by ID. Files
// that fail to parse are logged and skipped so one bad ticket does not
// block the rest.
func (s *Store) LoadAll() ([]*types.Ticket, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket directory %s: %w", s.dir, err)
	}

	var tickets []*types.Ticket
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		// sync.toml lives alongside tickets; skip any sync.* companions.
		if strings.HasPrefix(name, "sync.") {
			continue
		}
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		t, err := Parse(data)
		if err != nil {
			s.logger.Warn("skipping unparseable ticket file",
				zap.String("path", path), zap.Error(err))
			continue
		}
		t.Path = path
		tickets = append(tickets, t)
	}

	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

// WriteExternalRef records ref in the ticket file's frontmatter,
// replacing an existing external-ref line or inserting one before the
// closing delimiter. The body is left byte-for-byte untouched, so
// external-ref mentions in prose or code blocks are never rewritten.
func (s *Store) WriteExternalRef(t *types.Ticket, ref string) error {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", t.Path, err)
	}
	updated, err := rewriteExternalRef(string(data), ref)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.Path, err)
	}
	if err := os.WriteFile(t.Path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.Path, err)
	}
	t.ExternalRef = ref
	return nil
}

func rewriteExternalRef(content, ref string) (string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return "", fmt.Errorf("no frontmatter found")
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return "", fmt.Errorf("unterminated frontmatter")
	}

	refLine := "external-ref: " + ref
	replaced := false
	for i := 1; i < end; i++ {
		if strings.HasPrefix(lines[i], "external-ref:") {
			lines[i] = refLine
			replaced = true
			break
		}
	}
	if !replaced {
		lines = slices.Insert(lines, end, refLine)
	}

	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}
