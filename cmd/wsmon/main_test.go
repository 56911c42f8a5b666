package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yourusername/wsmon/internal/models"
	"github.com/yourusername/wsmon/internal/state"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	return executeIn(t, t.TempDir(), args...)
}

// executeIn runs the root command with dir as $XDG_CONFIG_HOME and a lock
// file kept inside dir
func executeIn(t *testing.T, dir string, args ...string) error {
	t.Helper()
	configDir := filepath.Join(dir, "wsmon")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	config := "settings:\n  lockFile: " + filepath.Join(dir, "wsmon.lock") + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(config), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SWAYSOCK", "")
	t.Setenv("I3SOCK", "")

	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteContextC(context.Background())
	return err
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"key zero", []string{"switch", "0"}},
		{"key too large", []string{"move", "12"}},
		{"missing key", []string{"move-follow"}},
		{"extra key", []string{"switch", "1", "2"}},
		{"unknown command", []string{"frobnicate"}},
		{"no command", []string{}},
		{"unknown flag", []string{"list", "--bogus"}},
		{"move without direction", []string{"order", "move", "DP-1"}},
		{"move sideways", []string{"order", "move", "DP-1", "sideways"}},
		{"primary without output", []string{"order", "primary"}},
		{"move unknown output", []string{"order", "move", "DP-9", "up"}},
		{"primary unknown output", []string{"order", "primary", "DP-9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("args %v: error = %v, want ErrInvalidArgument", tt.args, err)
			}
		})
	}
}

func TestBackendUnavailable(t *testing.T) {
	for _, args := range [][]string{{"switch", "5"}, {"list"}, {"remap"}} {
		err := execute(t, args...)
		if !errors.Is(err, models.ErrBackendUnavailable) {
			t.Errorf("args %v: error = %v, want ErrBackendUnavailable", args, err)
		}
	}
}

func writeOrdering(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sway", state.DefaultOrderFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readOrdering(t *testing.T, path string) []models.OrderingEntry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	entries, _, err := state.ParseOrdering(f)
	if err != nil {
		t.Fatalf("ParseOrdering: %v", err)
	}
	return entries
}

func TestOrderMove(t *testing.T) {
	dir := t.TempDir()
	path := writeOrdering(t, dir, "eDP-1,0,0,true\nDP-1,1920,0,false\nDP-2,3840,0,false\n")

	if err := executeIn(t, dir, "order", "move", "DP-2", "up"); err != nil {
		t.Fatalf("order move: %v", err)
	}
	if diff := cmp.Diff([]string{"eDP-1", "DP-2", "DP-1"}, models.EntryNames(readOrdering(t, path))); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if err := executeIn(t, dir, "order", "move", "eDP-1", "up"); err != nil {
		t.Fatalf("order move first up: %v", err)
	}
	if diff := cmp.Diff([]string{"eDP-1", "DP-2", "DP-1"}, models.EntryNames(readOrdering(t, path))); diff != "" {
		t.Errorf("moving the first entry up changed the order (-want +got):\n%s", diff)
	}
}

func TestOrderPrimary(t *testing.T) {
	dir := t.TempDir()
	path := writeOrdering(t, dir, "eDP-1,0,0,true\nDP-1,1920,0,false\n")

	if err := executeIn(t, dir, "order", "primary", "DP-1"); err != nil {
		t.Fatalf("order primary: %v", err)
	}

	want := []models.OrderingEntry{
		{Name: "eDP-1"},
		{Name: "DP-1", X: 1920, Primary: true},
	}
	if diff := cmp.Diff(want, readOrdering(t, path)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderPositions_NoReload(t *testing.T) {
	dir := t.TempDir()
	writeOrdering(t, dir, "eDP-1,0,0,true\nDP-1,1920,0,false\n")

	if err := executeIn(t, dir, "order", "positions", "--no-reload"); err != nil {
		t.Fatalf("order positions --no-reload: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sway", state.DefaultPositionsFile))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "output DP-1 pos 1920 0\n") {
		t.Errorf("positions include = %q", data)
	}
}

func TestOrderPositions_ReloadNeedsBackend(t *testing.T) {
	dir := t.TempDir()
	writeOrdering(t, dir, "eDP-1\n")

	err := executeIn(t, dir, "order", "positions", "--no-reload=false")
	if !errors.Is(err, models.ErrBackendUnavailable) {
		t.Errorf("error = %v, want ErrBackendUnavailable", err)
	}
}
