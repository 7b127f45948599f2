package grammar

import (
	"strings"
	"testing"
)

func TestExtractClassMembers(t *testing.T) {
	content := `classDiagram
class Account {
  %% @address bank.core
  %% @type definition
  +string owner
  -balance: float
  #int version$
  +deposit(amount: float) bool
  -audit(entry) void*
  +find(id: string) Account$
}`

	result := Extract(content, 1)
	if len(result.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(result.Classes))
	}

	pc := result.Classes[0]
	if pc.Name != "Account" {
		t.Errorf("name = %q", pc.Name)
	}
	if pc.StartLine != 2 || pc.EndLine != 11 {
		t.Errorf("lines = %d..%d, want 2..11", pc.StartLine, pc.EndLine)
	}
	if pc.Annotations.Address != "bank.core" || pc.Annotations.EntityType != "definition" {
		t.Errorf("annotations = %+v", pc.Annotations)
	}
	if !pc.Annotations.IsValid {
		t.Error("annotations should be valid")
	}

	if len(pc.Properties) != 3 {
		t.Fatalf("properties = %d, want 3", len(pc.Properties))
	}
	wantProps := []ParsedProperty{
		{Name: "owner", Visibility: "public", Type: "string"},
		{Name: "balance", Visibility: "private", Type: "float"},
		{Name: "version", Visibility: "protected", Type: "int", IsStatic: true},
	}
	for i, want := range wantProps {
		if pc.Properties[i] != want {
			t.Errorf("property[%d] = %+v, want %+v", i, pc.Properties[i], want)
		}
	}

	if len(pc.Methods) != 3 {
		t.Fatalf("methods = %d, want 3", len(pc.Methods))
	}
	deposit := pc.Methods[0]
	if deposit.Name != "deposit" || deposit.ReturnType != "bool" || deposit.Visibility != "public" {
		t.Errorf("deposit = %+v", deposit)
	}
	if len(deposit.Parameters) != 1 || deposit.Parameters[0].Name != "amount" || deposit.Parameters[0].Type != "float" {
		t.Errorf("deposit params = %+v", deposit.Parameters)
	}
	audit := pc.Methods[1]
	if !audit.IsAbstract || audit.Visibility != "private" || audit.ReturnType != "void" {
		t.Errorf("audit = %+v", audit)
	}
	find := pc.Methods[2]
	if !find.IsStatic || find.ReturnType != "Account" {
		t.Errorf("find = %+v", find)
	}
}

func TestExtractGenericClass(t *testing.T) {
	content := `classDiagram
class Repo~T extends Entity, K~ {
  +get(key: K) T
  +all() List~T~
}`

	result := Extract(content, 1)
	if len(result.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(result.Classes))
	}
	pc := result.Classes[0]
	if !pc.IsGeneric || len(pc.TypeParams) != 2 {
		t.Fatalf("typeParams = %+v", pc.TypeParams)
	}
	if pc.TypeParams[0] != (TypeParam{Name: "T", Extends: "Entity"}) {
		t.Errorf("typeParams[0] = %+v", pc.TypeParams[0])
	}
	if pc.TypeParams[1] != (TypeParam{Name: "K"}) {
		t.Errorf("typeParams[1] = %+v", pc.TypeParams[1])
	}

	get := pc.Methods[0]
	if !get.Parameters[0].IsGeneric || get.Parameters[0].TypeVar != "K" {
		t.Errorf("get param = %+v", get.Parameters[0])
	}
	if get.ReturnType != "T" {
		t.Errorf("get return = %q", get.ReturnType)
	}
	if pc.Methods[1].ReturnType != "List<T>" {
		t.Errorf("all return = %q", pc.Methods[1].ReturnType)
	}
}

func TestNormalizeGenerics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"List~T~", "List<T>"},
		{"Map~K,V~", "Map<K,V>"},
		{"Promise~Result~T~~", "Promise<Result<T>>"},
		{"plain", "plain"},
		{"~notopened", "~notopened"},
	}
	for _, tt := range tests {
		if got := NormalizeGenerics(tt.in); got != tt.want {
			t.Errorf("NormalizeGenerics(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractEnumAndStereotypes(t *testing.T) {
	content := `classDiagram
class Color {
  <<enumeration>>
  RED
  GREEN
  BLUE
}
class Shape {
  <<Interface>>
  +area() float
}`

	result := Extract(content, 1)
	if len(result.Classes) != 2 {
		t.Fatalf("classes = %d, want 2", len(result.Classes))
	}
	color := result.Classes[0]
	if color.Stereotype != "enum" {
		t.Errorf("stereotype = %q, want enum alias applied", color.Stereotype)
	}
	if strings.Join(color.EnumValues, ",") != "RED,GREEN,BLUE" {
		t.Errorf("enum values = %v", color.EnumValues)
	}
	if result.Classes[1].Stereotype != "interface" {
		t.Errorf("stereotype = %q", result.Classes[1].Stereotype)
	}
}

func TestDuplicateAnnotationsRecorded(t *testing.T) {
	content := `class Dup {
  %% @address pkg.a
  %% @address pkg.b
  %% @type definition
}`

	result := Extract(content, 1)
	pc := result.Classes[0]
	if pc.Annotations.Address != "pkg.a" {
		t.Errorf("first @address should win, got %q", pc.Annotations.Address)
	}
	if len(pc.Annotations.Errors) != 1 || pc.Annotations.IsValid {
		t.Errorf("annotations = %+v", pc.Annotations)
	}
}

func TestAnnotationPositionIndependent(t *testing.T) {
	content := `class Late {
  +string field
  %% a plain comment, not a member
  %% @type external
  %% @address pkg
}`

	result := Extract(content, 1)
	pc := result.Classes[0]
	if pc.Annotations.Address != "pkg" || pc.Annotations.EntityType != "external" {
		t.Errorf("annotations = %+v", pc.Annotations)
	}
	if len(pc.Properties) != 1 {
		t.Errorf("plain comment leaked into members: %+v", pc.Properties)
	}
}

func TestExtractRelations(t *testing.T) {
	tests := []struct {
		line string
		want ParsedRelation
	}{
		{"Animal <|-- Dog", ParsedRelation{SourceClass: "Animal", TargetClass: "Dog", Type: RelationInheritance}},
		{"Engine *-- Piston", ParsedRelation{SourceClass: "Engine", TargetClass: "Piston", Type: RelationComposition}},
		{"Pond o-- Duck", ParsedRelation{SourceClass: "Pond", TargetClass: "Duck", Type: RelationAggregation}},
		{"Customer --> Order : places", ParsedRelation{SourceClass: "Customer", TargetClass: "Order", Type: RelationAssociation, Label: "places"}},
		{"A -- B", ParsedRelation{SourceClass: "A", TargetClass: "B", Type: RelationLink}},
		{"Service ..> Repo", ParsedRelation{SourceClass: "Service", TargetClass: "Repo", Type: RelationDependency}},
		{"Impl ..|> Iface", ParsedRelation{SourceClass: "Impl", TargetClass: "Iface", Type: RelationRealization}},
		{"A .. B", ParsedRelation{SourceClass: "A", TargetClass: "B", Type: RelationDashed}},
		{"Port ()-- Adapter", ParsedRelation{SourceClass: "Port", TargetClass: "Adapter", Type: RelationLollipop}},
		{`Library "1" --> "0..*" Book : holds`, ParsedRelation{SourceClass: "Library", TargetClass: "Book", Type: RelationAssociation, Label: "holds", SourceCardinality: "1", TargetCardinality: "0..*"}},
	}

	for _, tt := range tests {
		rel, ok := parseRelation(tt.line)
		if !ok {
			t.Errorf("parseRelation(%q) failed", tt.line)
			continue
		}
		if rel != tt.want {
			t.Errorf("parseRelation(%q) = %+v, want %+v", tt.line, rel, tt.want)
		}
	}
}

func TestExtractNamespace(t *testing.T) {
	content := `classDiagram
namespace Billing {
  class Invoice {
    +total() float
  }
  class LineItem
}`

	result := Extract(content, 1)
	if len(result.Namespaces) != 1 {
		t.Fatalf("namespaces = %d, want 1", len(result.Namespaces))
	}
	ns := result.Namespaces[0]
	if ns.Name != "Billing" || strings.Join(ns.Classes, ",") != "Invoice,LineItem" {
		t.Errorf("namespace = %+v", ns)
	}
	for _, pc := range result.Classes {
		if pc.Namespace != "Billing" {
			t.Errorf("class %s namespace = %q", pc.Name, pc.Namespace)
		}
	}
}

func TestExtractNotes(t *testing.T) {
	content := `classDiagram
note "global remark"
note for Account "tracks money"`

	result := Extract(content, 1)
	if len(result.Notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(result.Notes))
	}
	if result.Notes[0] != (ParsedNote{Text: "global remark"}) {
		t.Errorf("notes[0] = %+v", result.Notes[0])
	}
	if result.Notes[1] != (ParsedNote{Text: "tracks money", ForClass: "Account"}) {
		t.Errorf("notes[1] = %+v", result.Notes[1])
	}
}

func TestAbsoluteLineOffsets(t *testing.T) {
	content := "classDiagram\nclass Deep {\n}\n"
	result := Extract(content, 42)
	pc := result.Classes[0]
	if pc.StartLine != 43 || pc.EndLine != 44 {
		t.Errorf("lines = %d..%d, want 43..44", pc.StartLine, pc.EndLine)
	}
}

func TestMalformedClassDoesNotAbortSiblings(t *testing.T) {
	content := `classDiagram
class {
  +orphan() void
}
class Survivor {
  +ok() void
}`

	result := Extract(content, 1)
	if len(result.Classes) != 1 || result.Classes[0].Name != "Survivor" {
		t.Fatalf("classes = %+v", result.Classes)
	}
	if len(result.Classes[0].Methods) != 1 {
		t.Errorf("survivor methods = %+v", result.Classes[0].Methods)
	}
}

func TestUnterminatedBodyDegrades(t *testing.T) {
	content := `class Broken {
  +string field`

	result := Extract(content, 1)
	if len(result.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(result.Classes))
	}
	pc := result.Classes[0]
	if len(pc.Properties) != 1 {
		t.Errorf("properties = %+v", pc.Properties)
	}
	if pc.EndLine != 2 {
		t.Errorf("endLine = %d, want 2", pc.EndLine)
	}
}

func TestCompactBraceLayout(t *testing.T) {
	content := "classDiagram\nclass A { %% @address pkg\n %% @type definition\n +run() void }\nclass B { %% @address pkg\n %% @type reference }\nA --> B"

	result := Extract(content, 1)
	if len(result.Classes) != 2 {
		t.Fatalf("classes = %d, want 2", len(result.Classes))
	}

	a := result.Classes[0]
	if a.Name != "A" {
		t.Errorf("name = %q, want A", a.Name)
	}
	if a.Annotations.Address != "pkg" || a.Annotations.EntityType != "definition" {
		t.Errorf("A annotations = %+v", a.Annotations)
	}
	if len(a.Methods) != 1 || a.Methods[0].Name != "run" || a.Methods[0].ReturnType != "void" {
		t.Errorf("A methods = %+v", a.Methods)
	}
	if a.StartLine != 2 || a.EndLine != 4 {
		t.Errorf("A lines = %d..%d, want 2..4", a.StartLine, a.EndLine)
	}

	b := result.Classes[1]
	if b.Name != "B" {
		t.Errorf("name = %q, want B", b.Name)
	}
	if b.Annotations.Address != "pkg" || b.Annotations.EntityType != "reference" {
		t.Errorf("B annotations = %+v", b.Annotations)
	}

	if len(result.Relations) != 1 {
		t.Fatalf("relations = %+v", result.Relations)
	}
	rel := result.Relations[0]
	if rel.SourceClass != "A" || rel.TargetClass != "B" || rel.Type != RelationAssociation {
		t.Errorf("relation = %+v", rel)
	}
}

func TestSingleLineClassBody(t *testing.T) {
	content := "class Tiny { +int n }"

	result := Extract(content, 1)
	if len(result.Classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(result.Classes))
	}
	pc := result.Classes[0]
	if pc.Name != "Tiny" || pc.StartLine != 1 || pc.EndLine != 1 {
		t.Errorf("class = %+v", pc)
	}
	if len(pc.Properties) != 1 || pc.Properties[0].Name != "n" || pc.Properties[0].Type != "int" {
		t.Errorf("properties = %+v", pc.Properties)
	}
}

func TestOptionalAndDefaultParameters(t *testing.T) {
	content := `class Api {
  +fetch(id: string, limit?: int, retries: int = 3) Response
}`

	result := Extract(content, 1)
	params := result.Classes[0].Methods[0].Parameters
	if len(params) != 3 {
		t.Fatalf("params = %+v", params)
	}
	if params[1].Name != "limit" || !params[1].Optional {
		t.Errorf("limit = %+v", params[1])
	}
	if params[2].DefaultValue != "3" || params[2].Optional {
		t.Errorf("retries = %+v", params[2])
	}
}
