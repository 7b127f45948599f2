package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"classlink/internal/core/config"
	"classlink/internal/engine/diag"
	"classlink/internal/events"
)

const twoClassDoc = "# Model\n\n```mermaid\nclassDiagram\n    class Invoice {\n        %% @address billing\n        %% @type definition\n        +total() Money\n    }\n    class Money {\n        %% @address billing\n        %% @type definition\n        +int amount\n    }\n    Invoice --> Money\n```\n"

const danglingRefDoc = "```mermaid\nclassDiagram\n    class Order {\n        %% @address shop\n        %% @type reference\n    }\n```\n"

func newTestApp(t *testing.T, root string) (*App, *events.CaptureSink) {
	t.Helper()
	cfg := config.Default()
	cfg.Discovery.Roots = []string{root}
	sink := events.NewCaptureSink()
	a, err := New(cfg, nil, sink)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a, sink
}

func TestRunResolvesSingleFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "model.md"), []byte(twoClassDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	a, _ := newTestApp(t, root)
	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Files != 1 || result.DiagramBlocks != 1 {
		t.Errorf("unexpected counts: files=%d blocks=%d", result.Files, result.DiagramBlocks)
	}
	if len(result.Specs) != 2 {
		t.Fatalf("expected 2 registered specs, got %d", len(result.Specs))
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %+v", result.Errors)
	}
	if result.Specs[0].FQN != "billing.Invoice" {
		t.Errorf("unexpected first spec: %s", result.Specs[0].FQN)
	}
}

func TestRunDeferredResolvesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	// File a references shop.Order; file b defines it. Discovery walks in
	// name order so the reference is built before the definition.
	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte(danglingRefDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	defDoc := "```mermaid\nclassDiagram\n    class Order {\n        %% @address shop\n        %% @type definition\n        +string id\n    }\n```\n"
	if err := os.WriteFile(filepath.Join(root, "b.md"), []byte(defDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	a, _ := newTestApp(t, root)
	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Errors) != 0 {
		t.Errorf("deferred reference should have converged: %+v", result.Errors)
	}
	if len(result.Unresolved) != 0 {
		t.Errorf("expected no unresolved references, got %v", result.Unresolved)
	}
}

func TestRunReportsUnresolvedReference(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte(danglingRefDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	a, _ := newTestApp(t, root)
	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Unresolved) != 1 || result.Unresolved[0] != "shop.Order" {
		t.Fatalf("expected shop.Order unresolved, got %v", result.Unresolved)
	}
	found := false
	for _, rec := range result.Errors {
		if rec.Code == diag.CodeUnresolvedReference {
			found = true
		}
	}
	if !found {
		t.Error("expected UNRESOLVED_REFERENCE error record")
	}
}

func TestRunEmitsPhaseEvents(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "model.md"), []byte(twoClassDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	a, sink := newTestApp(t, root)
	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	phases := make(map[string]bool)
	for _, ev := range sink.Events() {
		phases[ev.Phase] = true
	}
	for _, phase := range []string{"discover", "extract", "build", "integrate"} {
		if !phases[phase] {
			t.Errorf("missing event for phase %s", phase)
		}
	}
}

func TestNewRequiresConfigAndSink(t *testing.T) {
	if _, err := New(nil, nil, events.NewCaptureSink()); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := New(config.Default(), nil, nil); err == nil {
		t.Error("expected error for nil sink")
	}
}
