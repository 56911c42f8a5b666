package state

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
)

const (
	// DefaultOrderFile is the ordering file name under $XDG_CONFIG_HOME/sway
	DefaultOrderFile = "workspace-monitors.conf"
	// DefaultLockPath is shared with the sway helper scripts
	DefaultLockPath = "/tmp/workspace-monitors.lock"
	// DefaultPositionsFile is the generated sway include under $XDG_CONFIG_HOME/sway
	DefaultPositionsFile = "config.d/20-monitor-positions.conf"
)

const orderingHeader = `# Monitor ordering for wsmon
# Format: name,x,y,is_primary
# Line order sets workspace assignment (index 0 = WS 1-9, index 1 = WS 11-19, ...)

`

// SwayConfigDir returns $XDG_CONFIG_HOME/sway, falling back to ~/.config/sway
func SwayConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sway")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sway")
}

// GetOrderPath returns the default ordering file path
func GetOrderPath() string {
	return filepath.Join(SwayConfigDir(), DefaultOrderFile)
}

// GetPositionsPath returns the default generated positions path
func GetPositionsPath() string {
	return filepath.Join(SwayConfigDir(), DefaultPositionsFile)
}

// Store reads and writes the monitor ordering file.
// Reads take a shared lock, writes an exclusive one, both on LockPath.
type Store struct {
	OrderPath string
	LockPath  string
}

// NewStore creates a store, filling empty paths with defaults
func NewStore(orderPath, lockPath string) *Store {
	if orderPath == "" {
		orderPath = GetOrderPath()
	}
	if lockPath == "" {
		lockPath = DefaultLockPath
	}
	return &Store{OrderPath: orderPath, LockPath: lockPath}
}

// ReadEntries loads every valid entry. A missing file yields no entries.
// Permission and lock failures are wrapped in models.ErrConfigUnreadable.
func (s *Store) ReadEntries() ([]models.OrderingEntry, error) {
	if _, err := os.Stat(s.OrderPath); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var entries []models.OrderingEntry
	err := WithShared(s.LockPath, func() error {
		var err error
		entries, err = s.readUnlocked()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrConfigUnreadable, s.OrderPath, err)
	}

	return entries, nil
}

// readUnlocked parses the ordering file; the caller holds the lock
func (s *Store) readUnlocked() ([]models.OrderingEntry, error) {
	data, err := os.ReadFile(s.OrderPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	entries, skipped, err := ParseOrdering(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		logging.Info().Str("path", s.OrderPath).Ints("skipped_lines", skipped).Msg("ordering file has malformed lines")
	}
	return entries, nil
}

// ReadOrder returns the configured output names in file order.
// An unreadable file is logged and treated as an empty ordering.
func (s *Store) ReadOrder() ([]string, error) {
	entries, err := s.ReadEntries()
	if err != nil {
		if errors.Is(err, models.ErrConfigUnreadable) {
			logging.Warn().Err(err).Msg("ignoring unreadable ordering file")
			return nil, nil
		}
		return nil, err
	}
	return models.EntryNames(entries), nil
}

// WriteEntries replaces the ordering file under an exclusive lock
func (s *Store) WriteEntries(entries []models.OrderingEntry) error {
	return WithExclusive(s.LockPath, func() error {
		return s.writeUnlocked(entries)
	})
}

// Update reads the ordering file, applies fn and writes the result back,
// all under one exclusive lock. Nothing is written when fn fails.
func (s *Store) Update(fn func([]models.OrderingEntry) ([]models.OrderingEntry, error)) ([]models.OrderingEntry, error) {
	var updated []models.OrderingEntry
	err := WithExclusive(s.LockPath, func() error {
		entries, err := s.readUnlocked()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", models.ErrConfigUnreadable, s.OrderPath, err)
		}
		if updated, err = fn(entries); err != nil {
			return err
		}
		return s.writeUnlocked(updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) writeUnlocked(entries []models.OrderingEntry) error {
	var buf bytes.Buffer
	buf.WriteString(orderingHeader)
	for _, e := range entries {
		buf.WriteString(FormatEntry(e))
		buf.WriteByte('\n')
	}
	return writeAtomic(s.OrderPath, buf.Bytes())
}

// writeAtomic writes data using temp file + rename
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up temp file on failure
		return fmt.Errorf("failed to rename %s: %w", tmpPath, err)
	}

	return nil
}
