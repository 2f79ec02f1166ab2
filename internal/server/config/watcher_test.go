package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/barthorre/redstub-go/internal/telemetry/logger"
)

func TestWatcherReappliesLogLevel(t *testing.T) {
	logger.SetLevel("info")
	t.Cleanup(func() { logger.SetLevel("info") })

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	go w.Start()
	t.Cleanup(func() { w.Stop() })

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if logger.GetLevel() == "debug" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("log level = %q after config change, want debug", logger.GetLevel())
}
