package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := New(Options{Verbose: true, Dir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("plan built")
	_ = logger.Sync()
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "plan built") {
		t.Fatalf("debug entry missing from %q", data)
	}
}

func TestNop(t *testing.T) {
	Nop().Info("discarded")
}
