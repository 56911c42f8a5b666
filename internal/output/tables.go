package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/wsmon/internal/layout"
	"github.com/yourusername/wsmon/internal/models"
)

// PrintMonitorList prints one line per monitor, e.g.
//
//	[0] eDP-1 → Workspaces 1-9
//	[1] DP-1 → Workspaces 11-19
func PrintMonitorList(w io.Writer, assignments []layout.Assignment) {
	for _, a := range assignments {
		fmt.Fprintf(w, "[%d] %s → Workspaces %d-%d\n", a.Index, a.Output, a.Start, a.End)
	}
}

// PrintAssignmentsTable prints the merged order with geometry and focus
func PrintAssignmentsTable(w io.Writer, assignments []layout.Assignment, outputs []models.Output, configured map[string]bool) {
	byName := make(map[string]models.Output, len(outputs))
	for _, o := range outputs {
		byName[o.Name] = o
	}

	table := tablewriter.NewWriter(w)
	table.Header("Index", "Output", "Workspaces", "Geometry", "Configured", "Focused")

	for _, a := range assignments {
		o := byName[a.Output]

		focused := ""
		if o.Focused {
			focused = "✓"
		}
		inOrder := ""
		if configured[a.Output] {
			inOrder = "✓"
		}

		table.Append(
			fmt.Sprintf("%d", a.Index),
			truncate(a.Output, 25),
			fmt.Sprintf("%d-%d", a.Start, a.End),
			o.FormatGeometry(),
			inOrder,
			focused,
		)
	}

	table.Render()
}

// PrintEntriesTable prints persisted ordering entries.
// Entries whose output is not active are marked stale; with a nil active
// set the status column shows "-".
func PrintEntriesTable(w io.Writer, entries []models.OrderingEntry, active map[string]bool) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Output", "X", "Y", "Primary", "Status")

	for i, e := range entries {
		primary := ""
		if e.Primary {
			primary = "✓"
		}
		status := "-"
		if active != nil {
			status = "active"
			if !active[e.Name] {
				status = "stale"
			}
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(e.Name, 25),
			fmt.Sprintf("%d", e.X),
			fmt.Sprintf("%d", e.Y),
			primary,
			status,
		)
	}

	table.Render()
}

// Helper functions

// truncate shortens s to maxLen runes
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
