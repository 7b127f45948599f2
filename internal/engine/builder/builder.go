// # internal/engine/builder/builder.go

// Package builder turns validated parsed classes into registered ClassSpecs.
// It owns fqn construction, duplicate detection, delegation to the type
// resolver, and the decision to defer unresolved reference classes.
package builder

import (
	"fmt"

	"classlink/internal/engine/deferred"
	"classlink/internal/engine/diag"
	"classlink/internal/engine/grammar"
	"classlink/internal/engine/registry"
	"classlink/internal/engine/resolver"
)

// Context threads the run-scoped registry and deferred queue through each
// file's build call. Both are mutated additively; DiagramClasses is replaced
// wholesale on every BuildClassSpecs call and never survives across files.
type Context struct {
	Registry       *registry.PackageRegistry
	Queue          *deferred.Queue
	SpecFile       string
	DiagramClasses map[string]string
}

type Result struct {
	Specs    []*registry.ClassSpec
	Errors   []diag.Record
	Warnings []diag.Record
}

// BuildClassSpecs processes parsed classes in input order. The same-diagram
// map is completed before any class resolves, so classes may reference each
// other regardless of declaration order.
func BuildClassSpecs(classes []grammar.ParsedClass, relations []grammar.ParsedRelation, ctx *Context) Result {
	var result Result

	diagram := make(map[string]string, len(classes))
	for _, pc := range classes {
		if addr := pc.Annotations.Address; addr != "" {
			diagram[pc.Name] = addr + "." + pc.Name
		}
	}
	ctx.DiagramClasses = diagram

	for _, pc := range classes {
		addr := pc.Annotations.Address
		if addr == "" {
			result.Errors = append(result.Errors, record(diag.CodeInvalidFQN,
				"cannot build fqn: missing @address annotation", pc, "", ctx.SpecFile))
			continue
		}

		fqn := addr + "." + pc.Name
		if err := registry.ValidateFQN(fqn); err != nil {
			result.Errors = append(result.Errors, record(diag.CodeInvalidFQN,
				fmt.Sprintf("invalid fqn %q: %v", fqn, err), pc, fqn, ctx.SpecFile))
			continue
		}
		if registry.IsOverlongFQN(fqn) {
			result.Warnings = append(result.Warnings, record(diag.CodeLongFQN,
				fmt.Sprintf("fqn exceeds %d characters", registry.MaxFQNLength), pc, fqn, ctx.SpecFile))
		}

		// Reference classes never become specs: they either confirm an
		// existing definition or wait for one in the deferred queue.
		if pc.Annotations.EntityType == grammar.EntityReference {
			if !ctx.Registry.Exists(fqn) {
				ctx.Queue.Enqueue(deferred.Entry{
					DiagramType: "class",
					EntityFQN:   fqn,
					Payload: deferred.Payload{
						Type: deferred.PayloadDefinitionCheck,
						DefinitionCheck: &deferred.DefinitionCheck{
							Target:   fqn,
							SpecFile: ctx.SpecFile,
							SpecLine: pc.StartLine,
						},
					},
				})
			}
			continue
		}

		if ctx.Registry.Exists(fqn) {
			result.Errors = append(result.Errors, record(diag.CodeDuplicateDefinition,
				fmt.Sprintf("fqn %q is already defined", fqn), pc, fqn, ctx.SpecFile))
			continue
		}

		spec := assembleSpec(pc, fqn, relations, ctx)

		if spec.FQN == "" || spec.Name == "" || spec.Package == "" {
			result.Errors = append(result.Errors, record(diag.CodeMissingRequiredField,
				"assembled spec is missing fqn, name or package", pc, fqn, ctx.SpecFile))
			continue
		}
		for _, rel := range spec.Relationships {
			if rel.Target == fqn {
				result.Warnings = append(result.Warnings, record(diag.CodeCircularDependency,
					fmt.Sprintf("%s has a relationship to itself", fqn), pc, fqn, ctx.SpecFile))
			}
		}

		if err := ctx.Registry.Register(spec); err != nil {
			result.Errors = append(result.Errors, record(diag.CodeDuplicateFQN,
				err.Error(), pc, fqn, ctx.SpecFile))
			continue
		}
		result.Specs = append(result.Specs, spec)
	}

	return result
}

func assembleSpec(pc grammar.ParsedClass, fqn string, relations []grammar.ParsedRelation, ctx *Context) *registry.ClassSpec {
	spec := &registry.ClassSpec{
		FQN:        fqn,
		Package:    pc.Annotations.Address,
		Name:       pc.Name,
		SpecType:   registry.SpecType(pc.Annotations.EntityType),
		Stereotype: pc.Stereotype,
		IsGeneric:  pc.IsGeneric,
		TypeParams: pc.TypeParams,
		SpecFile:   ctx.SpecFile,
		SpecLine:   pc.StartLine,
	}

	typeVars := make(map[string]bool, len(pc.TypeParams))
	for _, tp := range pc.TypeParams {
		typeVars[tp.Name] = true
	}
	rc := resolver.Context{
		DiagramClasses: ctx.DiagramClasses,
		Registry:       ctx.Registry,
		TypeVars:       typeVars,
		SourceFQN:      fqn,
		SpecFile:       ctx.SpecFile,
		SpecLine:       pc.StartLine,
	}

	var allRefs []string
	resolve := func(raw string) (string, []string) {
		if raw == "" {
			return "", nil
		}
		res := resolver.ResolveType(raw, rc)
		if !res.IsResolved {
			spec.UnresolvedTypes = appendUnique(spec.UnresolvedTypes, res.TypeString)
		}
		for _, ref := range res.References {
			allRefs = appendUnique(allRefs, ref)
		}
		return res.TypeString, res.References
	}

	for _, pm := range pc.Methods {
		method := registry.Method{
			Name:       pm.Name,
			Visibility: pm.Visibility,
			ReturnType: pm.ReturnType,
			IsAbstract: pm.IsAbstract,
			IsStatic:   pm.IsStatic,
		}
		var refs []string
		if canonical, r := resolve(pm.ReturnType); canonical != "" {
			method.ReturnType = canonical
			refs = append(refs, r...)
		}
		for _, p := range pm.Parameters {
			if p.IsGeneric {
				method.Parameters = append(method.Parameters, p)
				continue
			}
			canonical, r := resolve(p.Type)
			if canonical != "" {
				p.Type = canonical
			}
			refs = append(refs, r...)
			method.Parameters = append(method.Parameters, p)
		}
		for _, ref := range refs {
			method.References = appendUnique(method.References, ref)
		}
		spec.Methods = append(spec.Methods, method)
	}

	for _, pp := range pc.Properties {
		prop := registry.Property{
			Name:       pp.Name,
			Visibility: pp.Visibility,
			Type:       pp.Type,
			IsStatic:   pp.IsStatic,
		}
		if canonical, refs := resolve(pp.Type); canonical != "" {
			prop.Type = canonical
			prop.References = refs
		}
		spec.Properties = append(spec.Properties, prop)
	}

	for _, rel := range relations {
		if rel.SourceClass != pc.Name && rel.SourceClass != fqn {
			continue
		}
		spec.Relationships = append(spec.Relationships, resolveRelationship(rel, fqn, ctx))
	}
	for _, rel := range spec.Relationships {
		if !rel.IsResolved && !inDiagram(ctx.DiagramClasses, rel.Target) {
			spec.UnresolvedTypes = appendUnique(spec.UnresolvedTypes, rel.Target)
		}
		allRefs = appendUnique(allRefs, rel.Target)
	}

	for _, ref := range allRefs {
		if dep, ok := ctx.Registry.Lookup(ref); ok && dep.SpecType == registry.SpecExternal {
			spec.ExternalDeps = appendUnique(spec.ExternalDeps, ref)
		}
	}

	return spec
}

// resolveRelationship maps a relation target onto its fqn. Unlike member
// types, a relationship only counts as resolved once a defining spec is
// actually registered: a same-diagram reference class supplies the target
// fqn but stays unresolved until its definition shows up.
func resolveRelationship(rel grammar.ParsedRelation, sourceFQN string, ctx *Context) registry.Relationship {
	target := rel.TargetClass
	if fqn, ok := ctx.DiagramClasses[rel.TargetClass]; ok {
		target = fqn
	}
	return registry.Relationship{
		Type:       rel.Type,
		Target:     target,
		Label:      rel.Label,
		IsResolved: ctx.Registry.Exists(target),
	}
}

func inDiagram(diagram map[string]string, fqn string) bool {
	for _, mapped := range diagram {
		if mapped == fqn {
			return true
		}
	}
	return false
}

func record(code diag.Code, msg string, pc grammar.ParsedClass, fqn, specFile string) diag.Record {
	return diag.Record{
		Code:     code,
		Message:  msg,
		Class:    pc.Name,
		Line:     pc.StartLine,
		FQN:      fqn,
		SpecFile: specFile,
		SpecLine: pc.StartLine,
	}
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
