package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	if err := Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Info().Str("command", "list").Msg("hello")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "wsmon", "wsmon.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"msg":"hello"`, `"invocation":`, `"ts":`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %s: %s", want, line)
		}
	}
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel(warn): %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("GlobalLevel = %v, want warn", zerolog.GlobalLevel())
	}
	if err := SetLevel(""); err != nil {
		t.Errorf("SetLevel(\"\") should be a no-op, got %v", err)
	}
	if err := SetLevel("loud"); err == nil {
		t.Error("SetLevel(loud) should fail")
	}

	SetDebug(true)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("GlobalLevel = %v, want debug", zerolog.GlobalLevel())
	}
}
