package state

import (
	"fmt"

	"github.com/yourusername/wsmon/internal/models"
)

// indexOf returns the position of name in entries, or -1
func indexOf(entries []models.OrderingEntry, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// MoveEntry shifts the named entry by delta places in the ordering.
// Moving past either end leaves the order unchanged.
func MoveEntry(entries []models.OrderingEntry, name string, delta int) ([]models.OrderingEntry, error) {
	from := indexOf(entries, name)
	if from < 0 {
		return nil, fmt.Errorf("%w: %s is not in the ordering file", models.ErrInvalidArgument, name)
	}

	moved := make([]models.OrderingEntry, len(entries))
	copy(moved, entries)

	to := from + delta
	if to < 0 || to >= len(moved) {
		return moved, nil
	}

	entry := moved[from]
	moved = append(moved[:from], moved[from+1:]...)
	moved = append(moved[:to], append([]models.OrderingEntry{entry}, moved[to:]...)...)
	return moved, nil
}

// SetPrimary marks name as the only primary entry
func SetPrimary(entries []models.OrderingEntry, name string) ([]models.OrderingEntry, error) {
	if indexOf(entries, name) < 0 {
		return nil, fmt.Errorf("%w: %s is not in the ordering file", models.ErrInvalidArgument, name)
	}

	updated := make([]models.OrderingEntry, len(entries))
	for i, e := range entries {
		e.Primary = e.Name == name
		updated[i] = e
	}
	return updated, nil
}
