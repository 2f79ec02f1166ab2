package shutdown

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/barthorre/redstub-go/internal/telemetry/logger"
)

func TestHooksRunInReverseOrder(t *testing.T) {
	h := NewHandler(time.Second, nil)

	var order []string
	h.OnShutdown("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	h.OnShutdown("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	if err := h.Trigger(); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("hook order = %v, want [second first]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Trigger")
	}
}

func TestLastHookErrorReturned(t *testing.T) {
	h := NewHandler(time.Second, nil)
	wantErr := errors.New("boom")
	h.OnShutdown("failing", func(context.Context) error { return wantErr })
	h.OnShutdown("fine", func(context.Context) error { return nil })

	if err := h.Trigger(); !errors.Is(err, wantErr) {
		t.Errorf("Trigger() error = %v, want %v", err, wantErr)
	}
}

func TestHookFailureIsLoggedByName(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})

	h := NewHandler(time.Second, log)
	h.OnShutdown("listener", func(context.Context) error { return errors.New("boom") })
	h.Trigger()

	out := buf.String()
	if !strings.Contains(out, "shutdown hook failed") || !strings.Contains(out, "listener") {
		t.Errorf("failure log missing hook name: %q", out)
	}
}
