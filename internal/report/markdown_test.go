package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"classlink/internal/engine/diag"
	"classlink/internal/engine/registry"
)

func TestGenerateIncludesSummaryAndEntities(t *testing.T) {
	data := RunReportData{
		Files:         3,
		DiagramBlocks: 2,
		Specs: []*registry.ClassSpec{
			{FQN: "billing.Invoice", Package: "billing", Name: "Invoice", SpecType: registry.SpecDefinition, SpecFile: "docs/a.md", SpecLine: 12},
			{FQN: "auth.User", Package: "auth", Name: "User", SpecType: registry.SpecDefinition, Stereotype: "interface", SpecFile: "docs/b.md", SpecLine: 4},
		},
		Warnings: []diag.Record{
			{Code: diag.CodeLongFQN, Class: "Invoice", Message: "fqn exceeds soft cap", SpecFile: "docs/a.md", Line: 12},
		},
		Unresolved: []string{"billing.Ledger"},
	}
	opts := RunReportOptions{
		RunID:       "run-42",
		Version:     "1.0.0",
		GeneratedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}

	out, err := NewMarkdownGenerator().Generate(data, opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"run: run-42",
		"| Files Scanned | 3 |",
		"| Registered Entities | 2 |",
		"### auth",
		"### billing",
		"| Invoice | definition |",
		"| User | interface |",
		"- `billing.Ledger`",
		"docs/a.md:12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Packages render alphabetically.
	if strings.Index(out, "### auth") > strings.Index(out, "### billing") {
		t.Error("expected auth section before billing section")
	}
}

func TestGenerateEmptyRun(t *testing.T) {
	out, err := NewMarkdownGenerator().Generate(RunReportData{}, RunReportOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(out, "No entities were registered.") {
		t.Error("expected empty-entities notice")
	}
	if strings.Count(out, "None.") != 3 {
		t.Errorf("expected three empty sections, got %d", strings.Count(out, "None."))
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.md")
	err := NewMarkdownGenerator().WriteFile(path, RunReportData{}, RunReportOptions{RunID: "r"})
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), "run: r") {
		t.Error("written report missing run id")
	}
}
