// # internal/engine/registry/spec.go
package registry

import "classlink/internal/engine/grammar"

type SpecType string

const (
	SpecDefinition SpecType = "definition"
	SpecReference  SpecType = "reference"
	SpecExternal   SpecType = "external"
)

// ClassSpec is a fully resolved entity. Once registered it is owned by the
// registry and must be treated as read-only.
type ClassSpec struct {
	FQN        string              `json:"fqn"`
	Package    string              `json:"package"`
	Name       string              `json:"name"`
	SpecType   SpecType            `json:"specType"`
	Stereotype string              `json:"stereotype,omitempty"`
	IsGeneric  bool                `json:"isGeneric,omitempty"`
	TypeParams []grammar.TypeParam `json:"typeParams,omitempty"`

	Methods       []Method       `json:"methods,omitempty"`
	Properties    []Property     `json:"properties,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`

	SpecFile string `json:"specFile"`
	SpecLine int    `json:"specLine"`

	UnresolvedTypes []string `json:"unresolvedTypes,omitempty"`
	ExternalDeps    []string `json:"externalDeps,omitempty"`
}

// Method mirrors grammar.ParsedMethod with types canonicalized and the fqns
// each type resolved to.
type Method struct {
	Name       string              `json:"name"`
	Visibility string              `json:"visibility"`
	Parameters []grammar.Parameter `json:"parameters,omitempty"`
	ReturnType string              `json:"returnType,omitempty"`
	IsAbstract bool                `json:"isAbstract,omitempty"`
	IsStatic   bool                `json:"isStatic,omitempty"`
	References []string            `json:"references,omitempty"`
}

type Property struct {
	Name       string   `json:"name"`
	Visibility string   `json:"visibility"`
	Type       string   `json:"type,omitempty"`
	IsStatic   bool     `json:"isStatic,omitempty"`
	References []string `json:"references,omitempty"`
}

type Relationship struct {
	Type       grammar.RelationType `json:"type"`
	Target     string               `json:"target"`
	Label      string               `json:"label,omitempty"`
	IsResolved bool                 `json:"isResolved"`
}
