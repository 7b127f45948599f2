package ports

import (
	"context"
	"time"

	"classlink/internal/engine/registry"
)

// Run phases, used to tag emitted events.
const (
	PhaseDiscover  = "discover"
	PhaseExtract   = "extract"
	PhaseBuild     = "build"
	PhaseIntegrate = "integrate"
	PhasePersist   = "persist"
)

// Event levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event is one structured pipeline occurrence. The core emits these without
// formatting or routing them; sinks decide what to do.
type Event struct {
	Level   string
	Phase   string
	Message string
	Fields  map[string]any
}

// EventSink receives structured events from the pipeline.
type EventSink interface {
	Emit(event Event)
}

// RunRecord summarises one completed pipeline run for persistence.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	Files     int
	Classes   int
	Errors    int
}

// SpecStore persists the resolved entity set of a run. Implementations must
// write a run atomically: either every spec lands or none do.
type SpecStore interface {
	SaveRun(ctx context.Context, run RunRecord, specs []*registry.ClassSpec) error
	Close() error
}
