// # internal/engine/grammar/types.go
package grammar

// Visibility of a class member, derived from the leading symbol on the
// member line (+ public, - private, # protected, ~ package).
const (
	VisibilityPublic    = "public"
	VisibilityPrivate   = "private"
	VisibilityProtected = "protected"
	VisibilityPackage   = "package"
)

// Entity kinds carried by the @type annotation.
const (
	EntityDefinition = "definition"
	EntityReference  = "reference"
	EntityExternal   = "external"
)

// Stereotypes recognized by the structural validator.
const (
	StereotypeClass     = "class"
	StereotypeInterface = "interface"
	StereotypeAbstract  = "abstract"
	StereotypeEnum      = "enum"
	StereotypeService   = "service"
	StereotypeEntity    = "entity"
)

type ParsedClass struct {
	Name       string
	IsGeneric  bool
	TypeParams []TypeParam
	Stereotype string
	Methods    []ParsedMethod
	Properties []ParsedProperty
	EnumValues []string
	Namespace  string
	StartLine  int // absolute, 1-indexed
	EndLine    int
	Annotations Annotations
}

// TypeParam is one declared generic parameter, e.g. T in Name~T~ or
// T with Extends set in Name~T extends Base~.
type TypeParam struct {
	Name    string
	Extends string
}

// Annotations holds the @address / @type comment annotations found in a
// class body. Duplicate occurrences are recorded on Errors and flip IsValid.
type Annotations struct {
	Address    string
	EntityType string
	IsValid    bool
	Errors     []string
}

type ParsedMethod struct {
	Name       string
	Visibility string
	Parameters []Parameter
	ReturnType string
	IsAbstract bool
	IsStatic   bool
}

type Parameter struct {
	Name         string
	Type         string
	Optional     bool
	DefaultValue string
	IsGeneric    bool
	TypeVar      string
}

type ParsedProperty struct {
	Name       string
	Visibility string
	Type       string
	IsStatic   bool
}

type RelationType string

const (
	RelationInheritance RelationType = "inheritance"
	RelationComposition RelationType = "composition"
	RelationAggregation RelationType = "aggregation"
	RelationAssociation RelationType = "association"
	RelationLink        RelationType = "link"
	RelationDependency  RelationType = "dependency"
	RelationRealization RelationType = "realization"
	RelationDashed      RelationType = "dashed"
	RelationLollipop    RelationType = "lollipop"
)

type ParsedRelation struct {
	SourceClass       string
	TargetClass       string
	Type              RelationType
	Label             string
	SourceCardinality string
	TargetCardinality string
}

type ParsedNamespace struct {
	Name    string
	Classes []string
}

type ParsedNote struct {
	Text     string
	ForClass string
}

// ExtractionResult is everything the extractor could structurally recover
// from one diagram block. Malformed declarations degrade to partial or
// missing entries, never to a failed extraction.
type ExtractionResult struct {
	Classes    []ParsedClass
	Relations  []ParsedRelation
	Namespaces []ParsedNamespace
	Notes      []ParsedNote
}
