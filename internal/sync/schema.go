package sync

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clintrovert/ticketsync/pkg/types"
)

// MissingOption is one configured type mapping whose option label does
// not exist on the project field.
type MissingOption struct {
	TicketType string
	Option     string
}

// ValidationError aggregates every configured type mapping that cannot
// be satisfied by the project's field schema. It is fatal to the run:
// no mutation is attempted once validation fails.
type ValidationError struct {
	Field     string
	Missing   []MissingOption
	Available []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "project field %q: %d invalid type mapping(s):", e.Field, len(e.Missing))
	for _, m := range e.Missing {
		fmt.Fprintf(&b, "\n  %s -> %q not found", m.TicketType, m.Option)
	}
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, "\navailable options: %s", strings.Join(e.Available, ", "))
	} else {
		fmt.Fprintf(&b, "\nfield has no selectable options or does not exist")
	}
	return b.String()
}

// ValidateTypeMappings confirms that every configured (ticket type ->
// option label) pair exists in the named field's option set. Option and
// field name matching is case-insensitive. Returns nil when typeMap is
// empty; returns a single *ValidationError enumerating all failures
// otherwise.
func ValidateTypeMappings(schema types.ProjectFieldSchema, field string, typeMap map[string]string) error {
	if len(typeMap) == 0 {
		return nil
	}

	// Deterministic order for the aggregated message.
	ticketTypes := make([]string, 0, len(typeMap))
	for tt := range typeMap {
		ticketTypes = append(ticketTypes, tt)
	}
	sort.Strings(ticketTypes)

	var missing []MissingOption
	for _, tt := range ticketTypes {
		if !schema.HasOption(field, typeMap[tt]) {
			missing = append(missing, MissingOption{TicketType: tt, Option: typeMap[tt]})
		}
	}
	if len(missing) == 0 {
		return nil
	}

	available, _ := schema.Options(field)
	return &ValidationError{Field: field, Missing: missing, Available: available}
}
