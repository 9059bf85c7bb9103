// Package schema provides composable type descriptors and a validation
// engine that coerces loosely-typed input (raw strings, decoded JSON)
// into strictly-typed values.
//
// Descriptors form a finite, acyclic tree built from primitives, structs,
// unions, literals and the Nullable/Strict wrappers. The variant of each
// descriptor is fixed at construction time via Kind; validation never
// infers shape from the input.
package schema

// Kind identifies a descriptor variant.
type Kind int

const (
	KindNumber Kind = iota
	KindInt
	KindFloat
	KindString
	KindID
	KindBoolean
	KindLiteral
	KindStruct
	KindUnion
	KindNullable
	KindStrict
)

// String returns the grammar-level name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindID:
		return "id"
	case KindBoolean:
		return "boolean"
	case KindLiteral:
		return "literal"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindNullable:
		return "nullable"
	case KindStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Type is a type descriptor node.
type Type interface {
	Kind() Kind
}

// primitive covers all leaf descriptors without payload.
type primitive struct {
	kind Kind
}

func (p primitive) Kind() Kind { return p.kind }

// Primitive descriptors.
var (
	// Number accepts a number or, outside Strict, a numeric string.
	// The validated value is a float64.
	Number Type = primitive{KindNumber}

	// Int coerces like Number, then truncates toward zero to an int64.
	Int Type = primitive{KindInt}

	// Float coerces like Number and keeps the float64.
	Float Type = primitive{KindFloat}

	// String passes string input through unchanged.
	String Type = primitive{KindString}

	// ID accepts any non-empty string, without coercion.
	ID Type = primitive{KindID}

	// Boolean accepts a bool or, outside Strict, exactly the strings
	// "true" and "false".
	Boolean Type = primitive{KindBoolean}
)

// Field is a named struct member. Order is significant and names must be
// unique within one struct.
type Field struct {
	Name string
	Type Type
}

// StructType validates each declared field against its descriptor.
// Undeclared input keys are ignored; the output contains only declared
// fields.
type StructType struct {
	Fields []Field
}

func (s *StructType) Kind() Kind { return KindStruct }

// Struct builds a struct descriptor from ordered fields.
func Struct(fields ...Field) *StructType {
	return &StructType{Fields: fields}
}

// UnionType tries its branches left to right and resolves to the first
// success. Literal branches are compared for exact equality before any
// typed branch is attempted.
type UnionType struct {
	Branches []Type
}

func (u *UnionType) Kind() Kind { return KindUnion }

// Union builds a union descriptor over the given branches.
func Union(branches ...Type) *UnionType {
	return &UnionType{Branches: branches}
}

// LiteralType matches exactly one value.
type LiteralType struct {
	Value any
}

func (l *LiteralType) Kind() Kind { return KindLiteral }

// Literal builds a literal descriptor for the exact value v.
func Literal(v any) *LiteralType {
	return &LiteralType{Value: v}
}

// NullableType lets nil pass through without invoking the inner
// descriptor.
type NullableType struct {
	Inner Type
}

func (n *NullableType) Kind() Kind { return KindNullable }

// Nullable wraps inner so that nil input validates to nil.
func Nullable(inner Type) *NullableType {
	return &NullableType{Inner: inner}
}

// StrictType disables string-to-primitive coercion for its subtree:
// input must already carry the native type.
type StrictType struct {
	Inner Type
}

func (s *StrictType) Kind() Kind { return KindStrict }

// Strict wraps inner, disabling coercion for the whole subtree.
func Strict(inner Type) *StrictType {
	return &StrictType{Inner: inner}
}
