// Package diag defines the diagnostic records produced while turning parsed
// diagram classes into registered entities. Diagnostics are data handed back
// to the caller, not Go errors; infrastructure failures use core/errors.
package diag

type Code string

// Structural validation codes.
const (
	CodeMissingPackage           Code = "MISSING_PACKAGE"
	CodeInvalidPackageFormat     Code = "INVALID_PACKAGE_FORMAT"
	CodeMissingType              Code = "MISSING_TYPE"
	CodeInvalidTypeValue         Code = "INVALID_TYPE_VALUE"
	CodeDuplicatePackage         Code = "DUPLICATE_PACKAGE"
	CodeDuplicateType            Code = "DUPLICATE_TYPE"
	CodeReferenceHasMembers      Code = "REFERENCE_HAS_MEMBERS"
	CodeEmptyDefinition          Code = "EMPTY_DEFINITION"
	CodeUnknownStereotype        Code = "UNKNOWN_STEREOTYPE"
	CodeInterfaceHasProperties   Code = "INTERFACE_HAS_PROPERTIES"
	CodeEnumHasMethods           Code = "ENUM_HAS_METHODS"
	CodeAbstractNoAbstractMethod Code = "ABSTRACT_NO_ABSTRACT_METHODS"
	CodeDuplicateClass           Code = "DUPLICATE_CLASS"
	CodeSelfReference            Code = "SELF_REFERENCE"
)

// Naming and registration codes.
const (
	CodeInvalidFQN           Code = "INVALID_FQN"
	CodeLongFQN              Code = "LONG_FQN"
	CodeDuplicateFQN         Code = "DUPLICATE_FQN"
	CodeDuplicateDefinition  Code = "DUPLICATE_DEFINITION"
	CodeMissingRequiredField Code = "MISSING_REQUIRED_FIELD"
	CodeCircularDependency   Code = "CIRCULAR_DEPENDENCY"
)

// Cross-file linking codes.
const (
	CodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
)

// Record is one diagnostic attributed to a class or entity. Class and Line
// are set for structural findings; FQN, SpecFile and SpecLine for naming and
// linking findings.
type Record struct {
	Code     Code
	Message  string
	Class    string
	Line     int
	FQN      string
	SpecFile string
	SpecLine int
}
