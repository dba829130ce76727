package engine

import (
	"io"
	"log/slog"
	"time"
)

// SyncEvent records the outcome of one remote round-trip (load or save).
type SyncEvent struct {
	Op         string // "load", "save"
	Duration   time.Duration
	Success    bool
	Err        error
	Categories int
}

// Observer receives engine telemetry: remote round-trips and rejected
// operations. Rejections are diagnostics, never user-facing errors.
type Observer interface {
	OnSync(event SyncEvent)
	OnRejected(op string, reason string)
}

// NoopObserver ignores all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnSync(SyncEvent)          {}
func (NoopObserver) OnRejected(string, string) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes engine events to the provided writer.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) OnSync(event SyncEvent) {
	attrs := []any{
		"op", event.Op,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
		"categories", event.Categories,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.Error("sync", attrs...)
		return
	}
	o.logger.Info("sync", attrs...)
}

func (o *logObserver) OnRejected(op, reason string) {
	o.logger.Warn("rejected", "op", op, "reason", reason)
}

func observerOrNoop(obs Observer) Observer {
	if obs == nil {
		return NoopObserver{}
	}
	return obs
}
