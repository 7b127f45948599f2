// # internal/engine/integrate/integrate.go

// Package integrate runs the second resolution pass after every file has
// been built. Deferred entries are checked against the now-complete registry
// exactly once per run.
package integrate

import (
	"fmt"

	"classlink/internal/engine/deferred"
	"classlink/internal/engine/diag"
	"classlink/internal/engine/registry"
)

// Input wraps the drained deferred entries. It can only be obtained through
// Seal, which makes draining before the build phase is over a compile-time
// impossibility rather than a runtime convention.
type Input struct {
	entries []deferred.Entry
}

// Seal drains the queue, ending the build phase. Callers must not invoke it
// until every file in the run has completed entity building.
func Seal(q *deferred.Queue) Input {
	return Input{entries: q.Drain()}
}

// Resolved is a deferred entry that found its entity in the final registry.
type Resolved struct {
	EntityFQN string
	Target    string
}

// Unresolved is a deferred entry whose entity never appeared anywhere in
// the run, reported with its original origin.
type Unresolved struct {
	EntityFQN string
	Target    string
	SpecFile  string
	SpecLine  int
}

// Report is the run-level linking outcome. A non-empty Errors list means the
// resolved entity set is incomplete and must gate any persistence step.
type Report struct {
	Resolved   []Resolved
	Unresolved []Unresolved
	Errors     []diag.Record
}

// Validate re-checks every sealed entry against the registry. A reference
// satisfied by an external entity counts as resolved; externals are trusted
// sources of truth for names outside this system's own definitions.
func Validate(in Input, reg *registry.PackageRegistry) Report {
	var report Report

	for _, entry := range in.entries {
		if reg.Exists(entry.EntityFQN) {
			report.Resolved = append(report.Resolved, Resolved{
				EntityFQN: entry.EntityFQN,
				Target:    targetOf(entry),
			})
			continue
		}

		unresolved := Unresolved{
			EntityFQN: entry.EntityFQN,
			Target:    targetOf(entry),
		}
		if dc := entry.Payload.DefinitionCheck; dc != nil {
			unresolved.SpecFile = dc.SpecFile
			unresolved.SpecLine = dc.SpecLine
		}
		report.Unresolved = append(report.Unresolved, unresolved)

		switch entry.Payload.Type {
		case deferred.PayloadDefinitionCheck:
			// A reference class that never found a definition anywhere in
			// the run is a real error, not a warning.
			report.Errors = append(report.Errors, diag.Record{
				Code:     diag.CodeUnresolvedReference,
				Message:  fmt.Sprintf("reference %q was never defined", entry.EntityFQN),
				FQN:      entry.EntityFQN,
				SpecFile: unresolved.SpecFile,
				SpecLine: unresolved.SpecLine,
			})
		}
	}

	return report
}

func targetOf(entry deferred.Entry) string {
	if dc := entry.Payload.DefinitionCheck; dc != nil {
		return dc.Target
	}
	return entry.EntityFQN
}
