// # internal/engine/resolver/resolver.go

// Package resolver maps raw type and reference strings from a diagram onto
// canonical fully-qualified names. Resolution is stateless per call: each
// lookup consults the same-diagram map first, then the global registry.
package resolver

import (
	"regexp"

	"classlink/internal/engine/grammar"
	"classlink/internal/engine/registry"
)

// Context carries the scopes a single resolution runs against. The resolver
// never mutates the registry or enqueues deferred entries; deciding what to
// do with an unresolved type belongs to the entity builder.
type Context struct {
	DiagramClasses map[string]string // short name -> fqn, current diagram only
	Registry       *registry.PackageRegistry
	TypeVars       map[string]bool // declared generic parameters of the source class
	SourceFQN      string
	SpecFile       string
	SpecLine       int
}

// Resolution is the outcome for one raw type string. TypeString is the
// canonical form (generics normalized); References lists every fqn the
// embedded identifiers resolved to.
type Resolution struct {
	TypeString string
	IsResolved bool
	References []string
}

var identPattern = regexp.MustCompile(`[A-Za-z_]\w*(\.[A-Za-z_]\w*)*`)

// builtinTypes never resolve to registry entities and never count as
// unresolved.
var builtinTypes = map[string]bool{
	"void": true, "any": true, "unknown": true, "null": true,
	"string": true, "str": true, "char": true,
	"int": true, "integer": true, "long": true, "short": true, "byte": true,
	"float": true, "double": true, "number": true, "decimal": true,
	"bool": true, "boolean": true,
	"object": true, "date": true, "datetime": true,
	"List": true, "Map": true, "Set": true, "Array": true,
	"Promise": true, "Optional": true, "Result": true,
}

// ResolveType resolves one raw type string. Identifiers are looked up first
// in the current diagram (declaration order inside a diagram is irrelevant),
// then treated as already-qualified names against the registry. Unresolvable
// identifiers mark the resolution unresolved without failing it; the second
// pass may still satisfy them.
func ResolveType(raw string, rc Context) Resolution {
	res := Resolution{
		TypeString: grammar.NormalizeGenerics(raw),
		IsResolved: true,
	}

	for _, ident := range identPattern.FindAllString(res.TypeString, -1) {
		if builtinTypes[ident] || rc.TypeVars[ident] {
			continue
		}
		if fqn, ok := rc.DiagramClasses[ident]; ok {
			res.References = appendUnique(res.References, fqn)
			continue
		}
		if rc.Registry != nil && rc.Registry.Exists(ident) {
			res.References = appendUnique(res.References, ident)
			continue
		}
		res.IsResolved = false
	}

	return res
}

func appendUnique(list []string, fqn string) []string {
	for _, existing := range list {
		if existing == fqn {
			return list
		}
	}
	return append(list, fqn)
}
