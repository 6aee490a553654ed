// Package types is the static type model of MiniJava: primitive, array and
// class-reference types, plus the Void and Error sentinels.
package types

// Kind is the category of a Type
type Kind uint8

const (
	// KindError is the zero Kind so that an unset Type reads as Error.
	KindError Kind = iota
	KindInt
	KindBoolean
	KindVoid
	KindArray
	KindClass
)

// Type is an immutable static type. Build values with the constructors and
// compare them with Equal; == only works for non-array types.
type Type struct {
	kind  Kind
	elem  *Type  // element type when kind == KindArray
	class string // class name when kind == KindClass
}

var (
	Int     = Type{kind: KindInt}
	Boolean = Type{kind: KindBoolean}
	Void    = Type{kind: KindVoid}
	Error   = Type{kind: KindError}
)

// ArrayOf returns the array type with the given element type
func ArrayOf(elem Type) Type {
	e := elem
	return Type{kind: KindArray, elem: &e}
}

// IntArray is int[], the only array type MiniJava source can spell.
var IntArray = ArrayOf(Int)

// ClassRef returns a reference to the named class
func ClassRef(name string) Type {
	return Type{kind: KindClass, class: name}
}

// Kind returns the category of t
func (t Type) Kind() Kind { return t.kind }

// IsError reports whether t is the Error sentinel
func (t Type) IsError() bool { return t.kind == KindError }

// IsArray reports whether t is an array type
func (t Type) IsArray() bool { return t.kind == KindArray }

// IsClass reports whether t is a class reference
func (t Type) IsClass() bool { return t.kind == KindClass }

// Elem returns the element type of an array, or Error for any other type
func (t Type) Elem() Type {
	if t.kind != KindArray || t.elem == nil {
		return Error
	}
	return *t.elem
}

// ClassName returns the referenced class, or "" for non-class types
func (t Type) ClassName() string {
	if t.kind != KindClass {
		return ""
	}
	return t.class
}

// Equal reports structural equality: arrays compare element types, classes
// compare names, everything else compares kinds.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindArray:
		return t.Elem().Equal(other.Elem())
	case KindClass:
		return t.class == other.class
	default:
		return true
	}
}

// String returns the MiniJava spelling of the type
func (t Type) String() string {
	switch t.kind {
	case KindInt:
		return "int"
	case KindBoolean:
		return "boolean"
	case KindVoid:
		return "void"
	case KindArray:
		return t.Elem().String() + "[]"
	case KindClass:
		return t.class
	default:
		return "<error>"
	}
}
