// Package events provides EventSink implementations: an slog-backed sink for
// production and a capturing sink for tests.
package events

import (
	"log/slog"
	"sync"

	"classlink/internal/core/ports"
)

// SlogSink routes pipeline events to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(event ports.Event) {
	attrs := make([]any, 0, 2+2*len(event.Fields))
	attrs = append(attrs, "phase", event.Phase)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}

	switch event.Level {
	case ports.LevelError:
		s.logger.Error(event.Message, attrs...)
	case ports.LevelWarning:
		s.logger.Warn(event.Message, attrs...)
	default:
		s.logger.Info(event.Message, attrs...)
	}
}

// CaptureSink records events for assertions in tests.
type CaptureSink struct {
	mu     sync.Mutex
	events []ports.Event
}

func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

func (c *CaptureSink) Emit(event ports.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *CaptureSink) Events() []ports.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.Event, len(c.events))
	copy(out, c.events)
	return out
}
