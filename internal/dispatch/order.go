package dispatch

import (
	"context"

	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
)

// PositionsWriter persists the generated sway output positions include
type PositionsWriter interface {
	WritePositions(entries []models.OrderingEntry, path string) error
}

// SnapshotEntries turns the live merged order into ordering entries for
// persisting. Positions come from current output geometry. Existing primary
// flags are kept; with none set the alphabetically first output becomes
// primary. Entries
// for outputs that are not connected right now are kept at the end.
func (d *Dispatcher) SnapshotEntries(ctx context.Context, existing []models.OrderingEntry) ([]models.OrderingEntry, error) {
	snap, err := d.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]models.Output, len(snap.Outputs))
	for _, o := range snap.Outputs {
		byName[o.Name] = o
	}
	wasPrimary := make(map[string]bool)
	for _, e := range existing {
		if e.Primary {
			wasPrimary[e.Name] = true
		}
	}

	entries := make([]models.OrderingEntry, 0, len(snap.Merged)+len(existing))
	hasPrimary := false
	for _, name := range snap.Merged {
		o := byName[name]
		entry := models.OrderingEntry{
			Name:    name,
			X:       o.X,
			Y:       o.Y,
			Primary: wasPrimary[name] && !hasPrimary,
		}
		hasPrimary = hasPrimary || entry.Primary
		entries = append(entries, entry)
	}
	if !hasPrimary && len(entries) > 0 {
		first := 0
		for i := range entries {
			if entries[i].Name < entries[first].Name {
				first = i
			}
		}
		entries[first].Primary = true
	}

	for _, e := range existing {
		if _, live := byName[e.Name]; live {
			continue
		}
		e.Primary = false
		entries = append(entries, e)
	}

	return entries, nil
}

// ApplyPositions writes the positions include for entries and asks sway to
// reload so the new layout takes effect. The include is left in place when
// the reload fails.
func (d *Dispatcher) ApplyPositions(ctx context.Context, w PositionsWriter, entries []models.OrderingEntry, path string) error {
	if err := w.WritePositions(entries, path); err != nil {
		return err
	}
	if err := d.backend.Reload(ctx); err != nil {
		return err
	}

	logging.Info().Str("path", path).Int("outputs", len(entries)).Msg("applied output positions")
	return nil
}
