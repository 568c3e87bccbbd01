// Package ir defines the language-agnostic Intermediate Representation of
// an API contract. The IR knows nothing about Go, TypeScript, or any target
// framework; it is a closed structural vocabulary every later stage speaks.
package ir

// TypeKind is the discriminant tag of a TypeReference.
type TypeKind string

const (
	KindObject    TypeKind = "object"
	KindArray     TypeKind = "array"
	KindPrimitive TypeKind = "primitive"
	KindOptional  TypeKind = "optional"
	KindNullable  TypeKind = "nullable"
	KindUnion     TypeKind = "union"
	KindEnum      TypeKind = "enum"
	KindLiteral   TypeKind = "literal"
	KindRecord    TypeKind = "record"
	KindTuple     TypeKind = "tuple"
	KindDate      TypeKind = "date"
)

// AllTypeKinds is the canonical, ordered list of every TypeReference kind.
// Mapping tables and capability declarations are checked against this list;
// adding a kind here without extending every backend is a compile gate.
var AllTypeKinds = []TypeKind{
	KindObject,
	KindArray,
	KindPrimitive,
	KindOptional,
	KindNullable,
	KindUnion,
	KindEnum,
	KindLiteral,
	KindRecord,
	KindTuple,
	KindDate,
}

// BaseType names a primitive's underlying wire type.
type BaseType string

const (
	BaseString  BaseType = "string"
	BaseNumber  BaseType = "number"
	BaseInteger BaseType = "integer"
	BaseBoolean BaseType = "boolean"
	BaseDate    BaseType = "date"
	BaseUUID    BaseType = "uuid"
	BaseEmail   BaseType = "email"
	BaseAny     BaseType = "any"
	BaseUnknown BaseType = "unknown"
)

// TypeReference is a closed tagged union over AllTypeKinds.
// Which fields are meaningful depends on Kind:
//
//	object:   Properties, Name (optional until collected)
//	array:    Element
//	primitive: Base
//	optional, nullable: Element (the wrapped type)
//	union, tuple: Variants
//	enum:     EnumValues, Name (optional until collected)
//	literal:  LiteralValue (string, float64, bool, or nil)
//	record:   Element (the value type; keys are always strings)
//	date:     nothing extra
//
// Every kind may carry Validation.
type TypeReference struct {
	Kind       TypeKind
	Name       string
	Base       BaseType
	Element    *TypeReference
	Variants   []*TypeReference
	Properties []Property
	EnumValues []any
	// LiteralValue holds the single concrete value of a literal kind.
	// A literal null is represented by LiteralNull=true.
	LiteralValue any
	LiteralNull  bool
	Validation   *ValidationRules
}

// Named reports whether a structural reference already carries a name,
// either declared at top level or assigned by the collector.
func (t *TypeReference) Named() bool {
	return t != nil && t.Name != ""
}

// Property is one field of an object TypeReference. It is created during
// extraction and never mutated afterwards, except that its type may receive
// a collector-assigned name.
type Property struct {
	Name       string
	Type       *TypeReference
	Required   bool
	Validation *ValidationRules
	Source     string
}

// Endpoint is a single contract operation. FullName ("group.name") is the
// wire method identifier and the seed for generated type and function names.
type Endpoint struct {
	Name     string
	Group    string
	FullName string
	Kind     EndpointKind
	Input    *TypeReference
	Output   *TypeReference
	Source   string
}

type EndpointKind string

const (
	EndpointQuery    EndpointKind = "query"
	EndpointMutation EndpointKind = "mutation"
)

// TypeDefinition is a named top-level type declaration.
type TypeDefinition struct {
	Name   string
	Ref    *TypeReference
	Source string
}

// ContractDefinition is the sole unit of work handed to every backend.
// It is produced once per run by the normalizer, mutated exactly once by
// the type collector (name assignment), then treated as read-only.
type ContractDefinition struct {
	Types     []TypeDefinition
	Endpoints []Endpoint
}

// CollectedType records one anonymous structural type the collector named.
// Source is a diagnostic breadcrumb (dotted path from the contract root)
// and is never used for generation logic.
type CollectedType struct {
	Name   string
	Ref    *TypeReference
	Source string
}
