// Package shutdown provides graceful shutdown handling.
//
// Components register named hooks; when the process receives SIGINT or
// SIGTERM the hooks run in reverse registration order, each logged with
// its outcome and duration, all bounded by one shared timeout.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/barthorre/redstub-go/internal/telemetry/logger"
)

// Hook is one named piece of teardown work.
type Hook struct {
	Name string
	Fn   func(context.Context) error
}

// Handler coordinates graceful shutdown.
type Handler struct {
	timeout time.Duration
	log     logger.Logger
	mu      sync.Mutex
	hooks   []Hook
	done    chan struct{}
}

// NewHandler creates a shutdown handler with the given total timeout.
// A nil logger falls back to the package default.
func NewHandler(timeout time.Duration, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		timeout: timeout,
		log:     log,
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a named shutdown hook.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, Hook{Name: name, Fn: fn})
}

// Wait blocks until a termination signal arrives, then executes the
// hooks. The last hook error is returned.
func (h *Handler) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	h.log.Info("shutdown signal received", "signal", sig.String())
	return h.Trigger()
}

// Trigger runs the hooks without waiting for a signal. It is what tests
// call instead of delivering signals to the process.
func (h *Handler) Trigger() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var lastErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		start := time.Now()
		err := hook.Fn(ctx)
		elapsed := time.Since(start)
		if err != nil {
			lastErr = err
			h.log.Error("shutdown hook failed",
				"hook", hook.Name,
				"elapsed", elapsed.String(),
				"error", err)
			continue
		}
		h.log.Debug("shutdown hook finished",
			"hook", hook.Name,
			"elapsed", elapsed.String())
	}

	close(h.done)
	return lastErr
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
