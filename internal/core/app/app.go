// Package app wires discovery, extraction, entity building, integration
// validation and persistence into one pipeline run.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"classlink/internal/core/config"
	"classlink/internal/core/ports"
	"classlink/internal/engine/builder"
	"classlink/internal/engine/deferred"
	"classlink/internal/engine/diag"
	"classlink/internal/engine/grammar"
	"classlink/internal/engine/integrate"
	"classlink/internal/engine/registry"
	"classlink/internal/engine/validate"
	"classlink/internal/report"
	"classlink/internal/shared/observability"
	"classlink/internal/source/discovery"
	"classlink/internal/source/extract"
)

type App struct {
	Config *config.Config

	store ports.SpecStore
	sink  ports.EventSink
}

// RunResult is the outcome of one full pipeline run.
type RunResult struct {
	RunID         string
	Files         int
	DiagramBlocks int
	Specs         []*registry.ClassSpec
	Errors        []diag.Record
	Warnings      []diag.Record
	Unresolved    []string
	Persisted     bool
}

func New(cfg *config.Config, store ports.SpecStore, sink ports.EventSink) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("event sink is required")
	}
	return &App{Config: cfg, store: store, sink: sink}, nil
}

// Run executes the full two-pass pipeline over the configured roots.
// Persistence happens only when the run produced zero errors.
func (a *App) Run(ctx context.Context) (*RunResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &RunResult{RunID: uuid.NewString()}
	startedAt := time.Now()

	files, err := a.discover(ctx, result)
	if err != nil {
		return nil, err
	}

	blocks := a.extractAll(ctx, files, result)

	reg := registry.NewPackageRegistry()
	queue := deferred.NewQueue()

	a.buildAll(ctx, blocks, reg, queue, result)
	a.integrate(ctx, reg, queue, result)

	result.Specs = reg.GetAll()

	observability.UnresolvedReferences.Set(float64(len(result.Unresolved)))

	if err := a.persist(ctx, startedAt, result); err != nil {
		return nil, err
	}

	outcome := "success"
	if len(result.Errors) > 0 {
		outcome = "errors"
	}
	observability.RunsTotal.WithLabelValues(outcome).Inc()

	return result, nil
}

func (a *App) discover(ctx context.Context, result *RunResult) ([]discovery.SourceFile, error) {
	_, span := observability.Tracer.Start(ctx, "app.discover")
	defer span.End()

	phaseStart := time.Now()
	finder, err := discovery.NewFinder(discovery.Config{
		Roots:         a.Config.Discovery.Roots,
		Include:       a.Config.Discovery.Include,
		Exclude:       a.Config.Discovery.Exclude,
		MaxFileSizeKB: a.Config.Discovery.MaxFileSizeKB,
	})
	if err != nil {
		return nil, err
	}

	files, warnings, err := finder.Find()
	if err != nil {
		return nil, err
	}
	for _, warning := range warnings {
		a.sink.Emit(ports.Event{
			Level: ports.LevelWarning, Phase: ports.PhaseDiscover, Message: warning,
		})
	}

	result.Files = len(files)
	observability.FilesDiscovered.Add(float64(len(files)))
	observability.PhaseDuration.WithLabelValues(ports.PhaseDiscover).Observe(time.Since(phaseStart).Seconds())

	a.sink.Emit(ports.Event{
		Level: ports.LevelInfo, Phase: ports.PhaseDiscover,
		Message: "discovery complete",
		Fields:  map[string]any{"files": len(files)},
	})
	return files, nil
}

// extractAll pulls every class-diagram block out of the discovered files,
// preserving file order.
func (a *App) extractAll(ctx context.Context, files []discovery.SourceFile, result *RunResult) []extract.DiagramBlock {
	_, span := observability.Tracer.Start(ctx, "app.extract")
	defer span.End()

	phaseStart := time.Now()
	var blocks []extract.DiagramBlock
	for _, file := range files {
		blocks = append(blocks, extract.ClassDiagramBlocks(file.Path, file.Content)...)
	}
	result.DiagramBlocks = len(blocks)
	observability.DiagramBlocksExtracted.Add(float64(len(blocks)))
	observability.PhaseDuration.WithLabelValues(ports.PhaseExtract).Observe(time.Since(phaseStart).Seconds())

	a.sink.Emit(ports.Event{
		Level: ports.LevelInfo, Phase: ports.PhaseExtract,
		Message: "block extraction complete",
		Fields:  map[string]any{"blocks": len(blocks)},
	})
	return blocks
}

// buildAll runs the first pass: validate and build every diagram block, in
// extraction order.
func (a *App) buildAll(ctx context.Context, blocks []extract.DiagramBlock, reg *registry.PackageRegistry, queue *deferred.Queue, result *RunResult) {
	_, span := observability.Tracer.Start(ctx, "app.build")
	defer span.End()

	phaseStart := time.Now()
	for _, block := range blocks {
		a.buildBlock(block, reg, queue, result)
	}
	observability.DeferredQueueDepth.Set(float64(queue.Count()))
	observability.PhaseDuration.WithLabelValues(ports.PhaseBuild).Observe(time.Since(phaseStart).Seconds())

	a.sink.Emit(ports.Event{
		Level: ports.LevelInfo, Phase: ports.PhaseBuild,
		Message: "entity building complete",
		Fields: map[string]any{
			"blocks":   result.DiagramBlocks,
			"entities": reg.Size(),
			"deferred": queue.Count(),
		},
	})
}

func (a *App) buildBlock(block extract.DiagramBlock, reg *registry.PackageRegistry, queue *deferred.Queue, result *RunResult) {
	extracted := grammar.Extract(block.Content, block.StartLine)
	observability.ClassesParsed.Add(float64(len(extracted.Classes)))

	validated := validate.ValidateExtraction(extracted)
	result.Errors = append(result.Errors, stamp(validated.Errors, block.SpecFile)...)
	result.Warnings = append(result.Warnings, stamp(validated.Warnings, block.SpecFile)...)
	observability.ClassesSkipped.Add(float64(len(validated.SkippedClasses)))

	for _, skipped := range validated.SkippedClasses {
		a.sink.Emit(ports.Event{
			Level: ports.LevelWarning, Phase: ports.PhaseBuild,
			Message: "class skipped by validation",
			Fields: map[string]any{
				"class":   skipped.Class.Name,
				"reasons": skipped.Reasons,
				"file":    block.SpecFile,
			},
		})
	}

	built := builder.BuildClassSpecs(validated.ValidClasses, extracted.Relations, &builder.Context{
		Registry: reg,
		Queue:    queue,
		SpecFile: block.SpecFile,
	})
	result.Errors = append(result.Errors, built.Errors...)
	result.Warnings = append(result.Warnings, built.Warnings...)
	observability.ClassesRegistered.Add(float64(len(built.Specs)))
}

// integrate runs the second pass over the sealed deferred queue.
func (a *App) integrate(ctx context.Context, reg *registry.PackageRegistry, queue *deferred.Queue, result *RunResult) {
	_, span := observability.Tracer.Start(ctx, "app.integrate")
	defer span.End()

	phaseStart := time.Now()
	linkReport := integrate.Validate(integrate.Seal(queue), reg)
	observability.DeferredQueueDepth.Set(0)

	result.Errors = append(result.Errors, linkReport.Errors...)
	for _, unresolved := range linkReport.Unresolved {
		result.Unresolved = append(result.Unresolved, unresolved.Target)
	}
	observability.PhaseDuration.WithLabelValues(ports.PhaseIntegrate).Observe(time.Since(phaseStart).Seconds())

	a.sink.Emit(ports.Event{
		Level: ports.LevelInfo, Phase: ports.PhaseIntegrate,
		Message: "integration validation complete",
		Fields: map[string]any{
			"resolved":   len(linkReport.Resolved),
			"unresolved": len(linkReport.Unresolved),
		},
	})
}

// persist saves the run when persistence is enabled and nothing errored.
// An incomplete entity set never reaches the store.
func (a *App) persist(ctx context.Context, startedAt time.Time, result *RunResult) error {
	if a.store == nil || !a.Config.DB.Enabled {
		return nil
	}
	if len(result.Errors) > 0 {
		a.sink.Emit(ports.Event{
			Level: ports.LevelWarning, Phase: ports.PhasePersist,
			Message: "persistence skipped, run has errors",
			Fields:  map[string]any{"errors": len(result.Errors)},
		})
		return nil
	}

	_, span := observability.Tracer.Start(ctx, "app.persist")
	defer span.End()

	phaseStart := time.Now()
	run := ports.RunRecord{
		ID:        result.RunID,
		StartedAt: startedAt,
		Files:     result.Files,
		Classes:   len(result.Specs),
		Errors:    len(result.Errors),
	}
	if err := a.store.SaveRun(ctx, run, result.Specs); err != nil {
		return fmt.Errorf("persist run %s: %w", result.RunID, err)
	}
	result.Persisted = true
	observability.PhaseDuration.WithLabelValues(ports.PhasePersist).Observe(time.Since(phaseStart).Seconds())

	a.sink.Emit(ports.Event{
		Level: ports.LevelInfo, Phase: ports.PhasePersist,
		Message: "run persisted",
		Fields:  map[string]any{"run": result.RunID, "entities": len(result.Specs)},
	})
	return nil
}

// ReportData converts a run result into the report renderer's input.
func (r *RunResult) ReportData() report.RunReportData {
	return report.RunReportData{
		Files:         r.Files,
		DiagramBlocks: r.DiagramBlocks,
		Specs:         r.Specs,
		Errors:        r.Errors,
		Warnings:      r.Warnings,
		Unresolved:    r.Unresolved,
	}
}

// stamp fills in the spec file on diagnostics produced before the builder,
// which only knows class-local positions.
func stamp(records []diag.Record, specFile string) []diag.Record {
	out := make([]diag.Record, len(records))
	for i, rec := range records {
		if rec.SpecFile == "" {
			rec.SpecFile = specFile
		}
		out[i] = rec
	}
	return out
}
