// Package report renders a run summary as markdown.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"classlink/internal/engine/diag"
	"classlink/internal/engine/registry"
)

// RunReportData collects everything one pipeline run produced.
type RunReportData struct {
	Files         int
	DiagramBlocks int

	Specs    []*registry.ClassSpec
	Errors   []diag.Record
	Warnings []diag.Record

	Unresolved []string
}

type RunReportOptions struct {
	RunID       string
	Version     string
	GeneratedAt time.Time
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data RunReportData, opts RunReportOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Entity Resolution Report\n")
	b.WriteString("run: " + nonEmpty(opts.RunID, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Entity Resolution Report\n\n")

	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Files Scanned | %d |\n", data.Files))
	b.WriteString(fmt.Sprintf("| Diagram Blocks | %d |\n", data.DiagramBlocks))
	b.WriteString(fmt.Sprintf("| Registered Entities | %d |\n", len(data.Specs)))
	b.WriteString(fmt.Sprintf("| Errors | %d |\n", len(data.Errors)))
	b.WriteString(fmt.Sprintf("| Warnings | %d |\n", len(data.Warnings)))
	b.WriteString(fmt.Sprintf("| Unresolved References | %d |\n\n", len(data.Unresolved)))

	writeEntities(&b, data.Specs)
	writeDiagnostics(&b, "Errors", data.Errors)
	writeDiagnostics(&b, "Warnings", data.Warnings)
	writeUnresolved(&b, data.Unresolved)

	return b.String(), nil
}

func writeEntities(b *strings.Builder, specs []*registry.ClassSpec) {
	b.WriteString("## Registered Entities\n")
	if len(specs) == 0 {
		b.WriteString("No entities were registered.\n\n")
		return
	}

	byPackage := make(map[string][]*registry.ClassSpec)
	for _, spec := range specs {
		byPackage[spec.Package] = append(byPackage[spec.Package], spec)
	}
	packages := make([]string, 0, len(byPackage))
	for pkg := range byPackage {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	for _, pkg := range packages {
		b.WriteString(fmt.Sprintf("### %s\n", pkg))
		b.WriteString("| Entity | Kind | Methods | Properties | Relations | Source |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		entries := byPackage[pkg]
		sort.Slice(entries, func(i, j int) bool { return entries[i].FQN < entries[j].FQN })
		for _, spec := range entries {
			kind := string(spec.SpecType)
			if spec.Stereotype != "" {
				kind = spec.Stereotype
			}
			source := fmt.Sprintf("%s:%d", filepath.ToSlash(spec.SpecFile), spec.SpecLine)
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %s |\n",
				spec.Name, kind, len(spec.Methods), len(spec.Properties), len(spec.Relationships), source))
		}
		b.WriteString("\n")
	}
}

func writeDiagnostics(b *strings.Builder, title string, records []diag.Record) {
	b.WriteString("## " + title + "\n")
	if len(records) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	b.WriteString("| Code | Class | Message | Location |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, rec := range records {
		location := ""
		if rec.SpecFile != "" {
			location = fmt.Sprintf("%s:%d", filepath.ToSlash(rec.SpecFile), rec.Line)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			rec.Code, nonEmpty(rec.Class, "-"), escapePipes(rec.Message), nonEmpty(location, "-")))
	}
	b.WriteString("\n")
}

func writeUnresolved(b *strings.Builder, unresolved []string) {
	b.WriteString("## Unresolved References\n")
	if len(unresolved) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	sorted := append([]string(nil), unresolved...)
	sort.Strings(sorted)
	for _, ref := range sorted {
		b.WriteString("- `" + ref + "`\n")
	}
	b.WriteString("\n")
}

// WriteFile renders the report and writes it to path, creating parent
// directories as needed.
func (m *MarkdownGenerator) WriteFile(path string, data RunReportData, opts RunReportOptions) error {
	content, err := m.Generate(data, opts)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory %q: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
