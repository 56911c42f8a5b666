package state

import (
	"bytes"
	"fmt"

	"github.com/yourusername/wsmon/internal/models"
)

const positionsHeader = `# Generated by wsmon from the monitor ordering file
# Do not edit by hand.

`

// RenderPositions renders sway "output NAME pos X Y" lines for entries
func RenderPositions(entries []models.OrderingEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString(positionsHeader)
	for _, e := range entries {
		fmt.Fprintf(&buf, "output %s pos %d %d\n", e.Name, e.X, e.Y)
	}
	return buf.Bytes()
}

// WritePositions writes the generated sway include to path while holding
// the ordering lock, so it never interleaves with an ordering write
func (s *Store) WritePositions(entries []models.OrderingEntry, path string) error {
	if path == "" {
		path = GetPositionsPath()
	}
	return WithExclusive(s.LockPath, func() error {
		return writeAtomic(path, RenderPositions(entries))
	})
}
