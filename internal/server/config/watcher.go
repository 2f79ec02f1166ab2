package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/barthorre/redstub-go/internal/telemetry/logger"
)

// Watcher watches the configuration file and re-applies the log level
// when it changes. The rest of the configuration is fixed at startup.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	log      logger.Logger
	mu       sync.Mutex
	done     chan struct{}
	closed   bool
}

// NewWatcher creates a watcher over the given config file.
func NewWatcher(filePath string, log logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file, to catch editor-style renames.
	if err := fw.Add(filepath.Dir(filePath)); err != nil {
		fw.Close()
		return nil, err
	}
	if log == nil {
		log = logger.Default()
	}
	return &Watcher{
		watcher:  fw,
		filePath: filePath,
		log:      log,
		done:     make(chan struct{}),
	}, nil
}

// Start watches for changes until Stop is called.
func (w *Watcher) Start() {
	base := filepath.Base(w.filePath)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watch error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := NewLoader(WithConfigFile(w.filePath)).Load()
	if err != nil {
		w.log.Warn("config reload failed", "path", w.filePath, "error", err)
		return
	}
	if cfg.Log.Level != logger.GetLevel() {
		logger.SetLevel(cfg.Log.Level)
		w.log.Info("log level changed", "level", cfg.Log.Level)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.watcher.Close()
}
