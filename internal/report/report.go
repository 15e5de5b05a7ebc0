// Package report renders sync results for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clintrovert/ticketsync/internal/sync"
)

var (
	createStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	updateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headingStyle = lipgloss.NewStyle().Bold(true)
)

func kindStyle(kind sync.ActionKind) lipgloss.Style {
	switch kind {
	case sync.ActionCreate:
		return createStyle
	case sync.ActionUpdate:
		return updateStyle
	case sync.ActionError:
		return failStyle
	default:
		return skipStyle
	}
}

// RenderResult formats a single sync result as one or more lines.
func RenderResult(r *sync.Result) string {
	var b strings.Builder
	label := kindStyle(r.Kind).Render(fmt.Sprintf("%-6s", r.Kind))

	switch r.Kind {
	case sync.ActionCreate:
		fmt.Fprintf(&b, "%s  %s → #%d  %s", label, r.TicketID, r.IssueNumber, r.URL)
	case sync.ActionUpdate:
		if len(r.Changes) == 0 {
			fmt.Fprintf(&b, "%s  %s → #%d  (no changes)", label, r.TicketID, r.IssueNumber)
		} else {
			fmt.Fprintf(&b, "%s  %s → #%d  (%s)", label, r.TicketID, r.IssueNumber,
				strings.Join(r.Changes, ", "))
		}
	case sync.ActionSkip:
		fmt.Fprintf(&b, "%s  %s  (%s)", label, r.TicketID, r.Reason)
	case sync.ActionError:
		fmt.Fprintf(&b, "%s  %s  %s", label, r.TicketID, r.Reason)
	}

	for _, note := range r.Notes {
		fmt.Fprintf(&b, "\n  %s", detailStyle.Render("└─ "+note))
	}
	return b.String()
}

// RenderSummary formats the closing counts line.
func RenderSummary(s sync.Summary) string {
	return fmt.Sprintf("Summary: %d created, %d updated, %d skipped, %d failed",
		s.Created, s.Updated, s.Skipped, s.Failed)
}

// RenderStatus formats the status report.
func RenderStatus(repo string, rep *sync.StatusReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", repo)
	if rep.Quick {
		b.WriteString(detailStyle.Render("(quick mode - remote state not checked)") + "\n")
	}
	total := len(rep.Unsynced) + len(rep.Synced) + len(rep.Modified) + len(rep.Conflicts)
	fmt.Fprintf(&b, "\nTickets: %d total\n", total)
	fmt.Fprintf(&b, "  Unsynced:  %3d  (will create new issues)\n", len(rep.Unsynced))
	fmt.Fprintf(&b, "  Synced:    %3d  (up to date)\n", len(rep.Synced))
	if !rep.Quick {
		fmt.Fprintf(&b, "  Modified:  %3d  (will update)\n", len(rep.Modified))
		fmt.Fprintf(&b, "  Conflicts: %3d  (modified outside tool)\n", len(rep.Conflicts))
	}

	if len(rep.Unsynced) > 0 {
		b.WriteString("\n" + headingStyle.Render("Unsynced:") + "\n")
		for _, t := range rep.Unsynced {
			fmt.Fprintf(&b, "  %-12s [%s]  %s\n", t.ID, t.Type, t.Title)
		}
	}
	if len(rep.Modified) > 0 {
		b.WriteString("\n" + headingStyle.Render("Modified:") + "\n")
		for _, f := range rep.Modified {
			fmt.Fprintf(&b, "  %-12s → #%-5d %s (%s)\n", f.Ticket.ID, f.IssueNumber, f.Ticket.Title, f.Reason)
		}
	}
	if len(rep.Conflicts) > 0 {
		b.WriteString("\n" + headingStyle.Render("Conflicts:") + "\n")
		for _, f := range rep.Conflicts {
			fmt.Fprintf(&b, "  %-12s → #%-5d %s (%s)\n", f.Ticket.ID, f.IssueNumber, f.Ticket.Title, f.Reason)
		}
	}
	if len(rep.Synced) > 0 && (len(rep.Unsynced) == 0 || rep.Quick) {
		b.WriteString("\n" + headingStyle.Render("Synced:") + "\n")
		for _, f := range rep.Synced {
			fmt.Fprintf(&b, "  %-12s → #%-5d %s\n", f.Ticket.ID, f.IssueNumber, f.Ticket.Title)
		}
	}
	return b.String()
}
