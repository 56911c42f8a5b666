package client

import (
	"fmt"
	"strings"

	"github.com/yourusername/wsmon/internal/layout"
)

// All sway command strings are built here.

// FocusCommand switches the focused output to workspace n
func FocusCommand(n int) string {
	return fmt.Sprintf("workspace number %d", n)
}

// MoveCommand moves the focused container to workspace n, keeping focus
func MoveCommand(n int) string {
	return fmt.Sprintf("move container to workspace number %d", n)
}

// MoveFollowCommand moves the focused container and follows it
func MoveFollowCommand(n int) string {
	return MoveCommand(n) + "; " + FocusCommand(n)
}

// ReloadCommand makes sway re-read its config, including generated includes
func ReloadCommand() string {
	return "reload"
}

// AssignCommand pins every workspace of each assignment to its output
func AssignCommand(assignments []layout.Assignment) string {
	var parts []string
	for _, a := range assignments {
		for key := layout.MinKey; key <= layout.MaxKey; key++ {
			parts = append(parts, fmt.Sprintf("workspace %d output %s", layout.ToGlobal(a.Index, key), quote(a.Output)))
		}
	}
	return strings.Join(parts, "; ")
}

// quote wraps names containing spaces or quotes for the sway parser
func quote(s string) string {
	if !strings.ContainsAny(s, " \"';") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
