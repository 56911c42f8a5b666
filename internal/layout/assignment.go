package layout

import (
	"sort"

	"github.com/yourusername/wsmon/internal/logging"
)

// Assignment pins one output to its block of nine workspaces
type Assignment struct {
	Index  int    `json:"index"`
	Output string `json:"output"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// MergeOrder builds the monitor order used for indexing.
// Configured outputs that are currently active come first, in configured
// order. Active outputs missing from the ordering follow, sorted by name.
// Stale and duplicate ordering entries are dropped.
func MergeOrder(active []string, order []string) []string {
	isActive := make(map[string]bool, len(active))
	for _, name := range active {
		isActive[name] = true
	}

	merged := make([]string, 0, len(active))
	placed := make(map[string]bool, len(active))

	for _, name := range order {
		if !isActive[name] || placed[name] {
			continue
		}
		merged = append(merged, name)
		placed[name] = true
	}

	var rest []string
	for _, name := range active {
		if placed[name] {
			continue
		}
		rest = append(rest, name)
		placed[name] = true
	}
	sort.Strings(rest)

	return append(merged, rest...)
}

// MonitorIndex returns the position of focused within merged.
// An output that vanished between queries maps to 0.
func MonitorIndex(focused string, merged []string) int {
	for i, name := range merged {
		if name == focused {
			return i
		}
	}
	logging.Debug().
		Str("focused", focused).
		Strs("merged", merged).
		Msg("focused output not in merged order, using index 0")
	return 0
}

// Assign expands a merged order into per-output workspace ranges
func Assign(merged []string) []Assignment {
	assignments := make([]Assignment, len(merged))
	for i, name := range merged {
		start, end := LocalKeyRange(i)
		assignments[i] = Assignment{
			Index:  i,
			Output: name,
			Start:  start,
			End:    end,
		}
	}
	return assignments
}
