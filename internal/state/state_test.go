package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yourusername/wsmon/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "sway", DefaultOrderFile), filepath.Join(dir, "wsmon.lock"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// === Parser Tests ===

func TestParseEntry(t *testing.T) {
	tests := []struct {
		line     string
		expected models.OrderingEntry
		hasError bool
	}{
		{"eDP-1", models.OrderingEntry{Name: "eDP-1"}, false},
		{"DP-1,1920,0,false", models.OrderingEntry{Name: "DP-1", X: 1920}, false},
		{"DP-2,-1080,200,true", models.OrderingEntry{Name: "DP-2", X: -1080, Y: 200, Primary: true}, false},
		{"HDMI-A-1,,,TRUE", models.OrderingEntry{Name: "HDMI-A-1", Primary: true}, false},
		{"DP-3,2560", models.OrderingEntry{Name: "DP-3", X: 2560}, false},
		{" DP-4 , 10 , 20 ", models.OrderingEntry{Name: "DP-4", X: 10, Y: 20}, false},
		{"not,valid,###", models.OrderingEntry{Name: "not"}, false},
		{"DP-1,0,0,maybe", models.OrderingEntry{Name: "DP-1"}, false},
		{"DP-1,0,0,yes", models.OrderingEntry{Name: "DP-1"}, false},
		{"DP-1,1920.5,0,true", models.OrderingEntry{Name: "DP-1", Primary: true}, false},
		{"DP-1,10,20,true,extra", models.OrderingEntry{Name: "DP-1", X: 10, Y: 20, Primary: true}, false},
		{",0,0,true", models.OrderingEntry{}, true},
		{"DP 1", models.OrderingEntry{}, true},
		{"DP\t1,0,0", models.OrderingEntry{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseEntry(tt.line)
			if tt.hasError {
				if err == nil {
					t.Errorf("ParseEntry(%q) expected error, got %+v", tt.line, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntry(%q) unexpected error: %v", tt.line, err)
			}
			if got != tt.expected {
				t.Errorf("ParseEntry(%q) = %+v, want %+v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestParseOrdering_SkipsCommentsAndMalformed(t *testing.T) {
	input := `# header comment

eDP-1,0,0,true
,1920,0,false
   # indented comment
DP-1,1920,0,false
eDP-1,5,5,false
HDMI-A-1
`
	entries, skipped, err := ParseOrdering(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrdering error: %v", err)
	}

	want := []string{"eDP-1", "DP-1", "HDMI-A-1"}
	if diff := cmp.Diff(want, models.EntryNames(entries)); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if entries[0].X != 0 || !entries[0].Primary {
		t.Errorf("first occurrence of eDP-1 should win, got %+v", entries[0])
	}
	if diff := cmp.Diff([]int{4}, skipped); diff != "" {
		t.Errorf("skipped lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOrdering_KeepsIdentifierWithBadFields(t *testing.T) {
	input := "DP-2,0,0,yes\nDP-3,1920.5,0,true\nDP-4,0,0,true,extra\nDP-1\n"

	entries, skipped, err := ParseOrdering(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseOrdering error: %v", err)
	}

	want := []models.OrderingEntry{
		{Name: "DP-2"},
		{Name: "DP-3", Primary: true},
		{Name: "DP-4", Primary: true},
		{Name: "DP-1"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
}

func TestFormatEntry(t *testing.T) {
	got := FormatEntry(models.OrderingEntry{Name: "DP-1", X: 1920, Y: -10, Primary: true})
	if got != "DP-1,1920,-10,true" {
		t.Errorf("FormatEntry = %q", got)
	}
}

// === Store Tests ===

func TestReadOrder_MissingFile(t *testing.T) {
	s := newTestStore(t)

	order, err := s.ReadOrder()
	if err != nil {
		t.Fatalf("ReadOrder error: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("ReadOrder = %v, want empty", order)
	}
	if _, err := os.Stat(s.LockPath); !os.IsNotExist(err) {
		t.Error("lock file should not be created when ordering file is absent")
	}
}

func TestReadOrder(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.OrderPath, "# comment\nDP-1\nDP-2,1920,0,false\nDP 3,0,0\n,0,0\n")

	order, err := s.ReadOrder()
	if err != nil {
		t.Fatalf("ReadOrder error: %v", err)
	}
	if diff := cmp.Diff([]string{"DP-1", "DP-2"}, order); diff != "" {
		t.Errorf("ReadOrder mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEntries_Unreadable(t *testing.T) {
	s := newTestStore(t)
	// A directory in place of the file cannot be read, even as root
	if err := os.MkdirAll(s.OrderPath, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	_, err := s.ReadEntries()
	if !errors.Is(err, models.ErrConfigUnreadable) {
		t.Fatalf("ReadEntries error = %v, want ErrConfigUnreadable", err)
	}

	order, err := s.ReadOrder()
	if err != nil {
		t.Fatalf("ReadOrder should swallow unreadable file, got %v", err)
	}
	if len(order) != 0 {
		t.Errorf("ReadOrder = %v, want empty", order)
	}
}

func TestReadEntries_LockUnavailable(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.OrderPath, "DP-1\n")

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	writeFile(t, blocker, "")
	s.LockPath = filepath.Join(blocker, "wsmon.lock")

	if _, err := s.ReadEntries(); !errors.Is(err, models.ErrConfigUnreadable) {
		t.Errorf("ReadEntries error = %v, want ErrConfigUnreadable", err)
	}
}

func TestWriteEntries_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	entries := []models.OrderingEntry{
		{Name: "eDP-1", X: 0, Y: 0, Primary: true},
		{Name: "DP-1", X: 1920, Y: 0},
	}

	if err := s.WriteEntries(entries); err != nil {
		t.Fatalf("WriteEntries error: %v", err)
	}

	data, err := os.ReadFile(s.OrderPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Monitor ordering") {
		t.Errorf("written file should start with header, got %q", string(data))
	}
	if _, err := os.Stat(s.OrderPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after write")
	}

	got, err := s.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries error: %v", err)
	}
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.OrderPath, "A,0,0,true\nB,1920,0,false\nC\n")

	got, err := s.Update(func(entries []models.OrderingEntry) ([]models.OrderingEntry, error) {
		return MoveEntry(entries, "C", -1)
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "C", "B"}, models.EntryNames(got)); diff != "" {
		t.Errorf("returned order mismatch (-want +got):\n%s", diff)
	}

	order, err := s.ReadOrder()
	if err != nil {
		t.Fatalf("ReadOrder error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "C", "B"}, order); diff != "" {
		t.Errorf("persisted order mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_FailureLeavesFile(t *testing.T) {
	s := newTestStore(t)
	original := "A\nB\n"
	writeFile(t, s.OrderPath, original)

	_, err := s.Update(func(entries []models.OrderingEntry) ([]models.OrderingEntry, error) {
		return SetPrimary(entries, "missing")
	})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("Update error = %v, want ErrInvalidArgument", err)
	}

	data, err := os.ReadFile(s.OrderPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != original {
		t.Errorf("ordering file changed to %q", data)
	}
}

func TestUpdate_LockUnavailable(t *testing.T) {
	s := newTestStore(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	writeFile(t, blocker, "")
	s.LockPath = filepath.Join(blocker, "wsmon.lock")

	called := false
	_, err := s.Update(func(entries []models.OrderingEntry) ([]models.OrderingEntry, error) {
		called = true
		return entries, nil
	})
	if err == nil {
		t.Fatal("Update should fail without a lock")
	}
	if called {
		t.Error("fn must not run without the exclusive lock")
	}
}

// === Edit Tests ===

func TestMoveEntry(t *testing.T) {
	entries := []models.OrderingEntry{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	tests := []struct {
		name     string
		output   string
		delta    int
		expected []string
	}{
		{"up", "B", -1, []string{"B", "A", "C"}},
		{"down", "B", 1, []string{"A", "C", "B"}},
		{"first stays first", "A", -1, []string{"A", "B", "C"}},
		{"last stays last", "C", 1, []string{"A", "B", "C"}},
		{"to the end", "A", 2, []string{"B", "C", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveEntry(entries, tt.output, tt.delta)
			if err != nil {
				t.Fatalf("MoveEntry error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, models.EntryNames(got)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if diff := cmp.Diff([]string{"A", "B", "C"}, models.EntryNames(entries)); diff != "" {
		t.Errorf("input was modified (-want +got):\n%s", diff)
	}
}

func TestMoveEntry_Unknown(t *testing.T) {
	_, err := MoveEntry([]models.OrderingEntry{{Name: "A"}}, "B", 1)
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("MoveEntry error = %v, want ErrInvalidArgument", err)
	}
}

func TestSetPrimary(t *testing.T) {
	entries := []models.OrderingEntry{
		{Name: "A", Primary: true},
		{Name: "B", X: 1920},
		{Name: "C", Primary: true},
	}

	got, err := SetPrimary(entries, "B")
	if err != nil {
		t.Fatalf("SetPrimary error: %v", err)
	}

	want := []models.OrderingEntry{
		{Name: "A"},
		{Name: "B", X: 1920, Primary: true},
		{Name: "C"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if !entries[0].Primary {
		t.Error("input was modified")
	}

	if _, err := SetPrimary(entries, "missing"); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("SetPrimary(missing) error = %v, want ErrInvalidArgument", err)
	}
}

// === Lock Tests ===

func TestSharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")

	first, err := AcquireShared(path)
	if err != nil {
		t.Fatalf("AcquireShared: %v", err)
	}
	defer first.Release()

	second, err := AcquireShared(path)
	if err != nil {
		t.Fatalf("second AcquireShared: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Errorf("Release: %v", err)
	}
}

func TestWithShared_ReleasesOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	boom := errors.New("boom")

	if err := WithShared(path, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("WithShared error = %v, want boom", err)
	}

	// Exclusive must be obtainable once the shared holder is gone
	done := make(chan error, 1)
	go func() {
		done <- WithExclusive(path, func() error { return nil })
	}()
	if err := <-done; err != nil {
		t.Errorf("WithExclusive after failed shared section: %v", err)
	}
}

func TestRelease_Twice(t *testing.T) {
	lock, err := AcquireExclusive(filepath.Join(t.TempDir(), "lock"))
	if err != nil {
		t.Fatalf("AcquireExclusive: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("first Release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
}

// === Positions Tests ===

func TestWritePositions(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "config.d", "20-monitor-positions.conf")
	entries := []models.OrderingEntry{
		{Name: "eDP-1", X: 0, Y: 0, Primary: true},
		{Name: "DP-1", X: 1920, Y: -200},
	}

	if err := s.WritePositions(entries, path); err != nil {
		t.Fatalf("WritePositions: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{"output eDP-1 pos 0 0\n", "output DP-1 pos 1920 -200\n"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("positions file missing %q:\n%s", want, data)
		}
	}
}

func TestWritePositions_WaitsForLock(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "positions.conf")

	lock, err := AcquireShared(s.LockPath)
	if err != nil {
		t.Fatalf("AcquireShared: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.WritePositions([]models.OrderingEntry{{Name: "DP-1"}}, path)
	}()

	select {
	case err := <-done:
		t.Fatalf("WritePositions returned while a reader held the lock: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	lock.Release()
	if err := <-done; err != nil {
		t.Fatalf("WritePositions: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("positions file not written: %v", err)
	}
}
