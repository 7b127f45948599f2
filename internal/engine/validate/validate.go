// # internal/engine/validate/validate.go

// Package validate performs per-diagram structural validation of parsed
// classes, partitioning them into valid and skipped sets.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"classlink/internal/engine/diag"
	"classlink/internal/engine/grammar"
)

// Report is the outcome of validating one extraction result. Classes with
// errors land in SkippedClasses; warnings alone never exclude a class.
type Report struct {
	IsValid        bool
	Errors         []diag.Record
	Warnings       []diag.Record
	ValidClasses   []grammar.ParsedClass
	SkippedClasses []SkippedClass
}

type SkippedClass struct {
	Class   grammar.ParsedClass
	Reasons string
	Errors  []diag.Record
}

var packagePathPattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

var knownStereotypes = map[string]bool{
	grammar.StereotypeClass:     true,
	grammar.StereotypeInterface: true,
	grammar.StereotypeAbstract:  true,
	grammar.StereotypeEnum:      true,
	grammar.StereotypeService:   true,
	grammar.StereotypeEntity:    true,
}

// ValidateExtraction validates every class of one diagram independently,
// tracking duplicate (name, namespace) pairs across the diagram. The first
// occurrence of a name is recorded regardless of its own validity.
func ValidateExtraction(result grammar.ExtractionResult) Report {
	var report Report
	seen := make(map[string]bool, len(result.Classes))

	for _, pc := range result.Classes {
		key := pc.Name + "\x00" + namespaceOf(pc)
		errs, warns := classify(pc, seen[key])
		seen[key] = true

		report.Warnings = append(report.Warnings, warns...)
		if len(errs) == 0 {
			report.ValidClasses = append(report.ValidClasses, pc)
			continue
		}
		report.Errors = append(report.Errors, errs...)
		report.SkippedClasses = append(report.SkippedClasses, SkippedClass{
			Class:   pc,
			Reasons: joinReasons(errs),
			Errors:  errs,
		})
	}

	for _, rel := range result.Relations {
		if rel.SourceClass == rel.TargetClass {
			report.Warnings = append(report.Warnings, diag.Record{
				Code:    diag.CodeSelfReference,
				Message: fmt.Sprintf("class %s relates to itself", rel.SourceClass),
				Class:   rel.SourceClass,
			})
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

// classify runs every per-class check and accumulates diagnostics. It is
// pure: the routing into valid/skipped happens in ValidateExtraction so the
// decision cannot drift from the classification.
func classify(pc grammar.ParsedClass, duplicate bool) (errs, warns []diag.Record) {
	record := func(list *[]diag.Record, code diag.Code, msg string) {
		*list = append(*list, diag.Record{
			Code:    code,
			Message: msg,
			Class:   pc.Name,
			Line:    pc.StartLine,
		})
	}

	// 1. Annotations.
	switch {
	case pc.Annotations.Address == "":
		record(&errs, diag.CodeMissingPackage, "missing @address annotation")
	case !packagePathPattern.MatchString(pc.Annotations.Address):
		record(&errs, diag.CodeInvalidPackageFormat,
			fmt.Sprintf("@address %q contains invalid characters", pc.Annotations.Address))
	}
	switch pc.Annotations.EntityType {
	case "":
		record(&errs, diag.CodeMissingType, "missing @type annotation")
	case grammar.EntityDefinition, grammar.EntityReference, grammar.EntityExternal:
	default:
		record(&errs, diag.CodeInvalidTypeValue,
			fmt.Sprintf("@type %q must be definition, reference or external", pc.Annotations.EntityType))
	}
	for _, annErr := range pc.Annotations.Errors {
		if strings.Contains(annErr, "@address") {
			record(&errs, diag.CodeDuplicatePackage, annErr)
		} else {
			record(&errs, diag.CodeDuplicateType, annErr)
		}
	}

	// 2. Entity kind vs members.
	memberCount := len(pc.Methods) + len(pc.Properties) + len(pc.EnumValues)
	switch pc.Annotations.EntityType {
	case grammar.EntityReference:
		if memberCount > 0 {
			record(&errs, diag.CodeReferenceHasMembers, "reference classes must not declare members")
		}
	case grammar.EntityDefinition:
		if memberCount == 0 {
			record(&warns, diag.CodeEmptyDefinition, "definition class has no members")
		}
	}

	// 3. Stereotype constraints.
	if pc.Stereotype != "" && !knownStereotypes[pc.Stereotype] {
		record(&warns, diag.CodeUnknownStereotype, fmt.Sprintf("unknown stereotype %q", pc.Stereotype))
	} else {
		switch pc.Stereotype {
		case grammar.StereotypeInterface:
			if len(pc.Properties) > 0 {
				record(&warns, diag.CodeInterfaceHasProperties, "interfaces should not declare properties")
			}
		case grammar.StereotypeEnum:
			if len(pc.Methods) > 0 {
				record(&errs, diag.CodeEnumHasMethods, "enums must not declare methods")
			}
		case grammar.StereotypeAbstract:
			if !hasAbstractMethod(pc) {
				record(&warns, diag.CodeAbstractNoAbstractMethod, "abstract class declares no abstract method")
			}
		}
	}

	// 4. Duplicates within the diagram.
	if duplicate {
		record(&errs, diag.CodeDuplicateClass,
			fmt.Sprintf("class %s already declared in namespace %s", pc.Name, namespaceOf(pc)))
	}

	return errs, warns
}

func hasAbstractMethod(pc grammar.ParsedClass) bool {
	for _, m := range pc.Methods {
		if m.IsAbstract {
			return true
		}
	}
	return false
}

func namespaceOf(pc grammar.ParsedClass) string {
	if pc.Namespace == "" {
		return "default"
	}
	return pc.Namespace
}

func joinReasons(errs []diag.Record) string {
	reasons := make([]string, 0, len(errs))
	for _, e := range errs {
		reasons = append(reasons, e.Message)
	}
	return strings.Join(reasons, "; ")
}
