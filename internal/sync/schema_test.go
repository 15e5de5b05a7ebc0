package sync

import (
	"strings"
	"testing"

	"github.com/clintrovert/ticketsync/pkg/types"
)

func TestValidateTypeMappings(t *testing.T) {
	schema := types.ProjectFieldSchema{
		"Type":   {"Bug", "Feature", "Task"},
		"Status": {"Todo", "Done"},
	}

	tests := []struct {
		name    string
		field   string
		typeMap map[string]string
		wantErr bool
	}{
		{
			name:    "all mappings valid",
			field:   "Type",
			typeMap: map[string]string{"bug": "Bug", "task": "Task"},
		},
		{
			name:    "case-insensitive option match",
			field:   "type",
			typeMap: map[string]string{"bug": "BUG"},
		},
		{
			name:    "empty mapping is vacuously valid",
			field:   "Type",
			typeMap: nil,
		},
		{
			name:    "missing option",
			field:   "Type",
			typeMap: map[string]string{"epic": "Epic"},
			wantErr: true,
		},
		{
			name:    "unknown field fails every mapping",
			field:   "Kind",
			typeMap: map[string]string{"bug": "Bug"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTypeMappings(schema, tt.field, tt.typeMap)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorAggregates(t *testing.T) {
	schema := types.ProjectFieldSchema{"Type": {"Bug", "Task"}}
	err := ValidateTypeMappings(schema, "Type", map[string]string{
		"epic":    "Epic",
		"chore":   "Chore",
		"bug":     "Bug",
		"feature": "Feature",
	})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Missing) != 3 {
		t.Fatalf("expected 3 missing mappings, got %+v", verr.Missing)
	}
	msg := verr.Error()
	for _, want := range []string{"Epic", "Chore", "Feature", "available options: Bug, Task"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	// Deterministic enumeration order.
	if verr.Missing[0].TicketType != "chore" || verr.Missing[1].TicketType != "epic" {
		t.Fatalf("missing mappings not sorted: %+v", verr.Missing)
	}
}
