package semantic

import (
	"github.com/npillmayer/mlang"
)

// TypeKind is the static category of an expression.
type TypeKind int8

// Static types. Number is a numeric scalar of which it is not known whether
// it is an integer or a float, e.g. an element of a matrix.
const (
	Unknown TypeKind = iota // result of an erroneous expression
	Int
	Float
	Number
	String
	Bool
	Matrix
)

var typeKindNames = [...]string{"unknown", "int", "float", "number", "string", "bool", "matrix"}

func (k TypeKind) String() string {
	if k >= 0 && int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "?"
}

// Type is the static type of an expression. Shape is set for matrices only.
type Type struct {
	Kind  TypeKind
	Shape mlang.Shape
}

var (
	unknownType = Type{Kind: Unknown}
	intType     = Type{Kind: Int}
	floatType   = Type{Kind: Float}
	numberType  = Type{Kind: Number}
	stringType  = Type{Kind: String}
	boolType    = Type{Kind: Bool}
)

// MatrixOf creates a matrix type of a given shape.
func MatrixOf(shape mlang.Shape) Type {
	return Type{Kind: Matrix, Shape: shape}
}

// Known is false for types of erroneous expressions. Unknown types are
// compatible with every other type, so that one error does not cause a
// cascade of follow-up diagnostics.
func (t Type) Known() bool {
	return t.Kind != Unknown
}

// IsNumeric is a predicate: is t a numeric scalar type?
func (t Type) IsNumeric() bool {
	return t.Kind == Int || t.Kind == Float || t.Kind == Number
}

// IsInteger is a predicate: may t hold an integer? Numbers are accepted
// here and checked at runtime.
func (t Type) IsInteger() bool {
	return t.Kind == Int || t.Kind == Number
}

// IsMatrix is a predicate: is t a matrix type?
func (t Type) IsMatrix() bool {
	return t.Kind == Matrix
}

// Equal compares two types, including shapes.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != Matrix {
		return true
	}
	if t.Shape.Rank() != o.Shape.Rank() {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != o.Shape[i] {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	if t.Kind == Matrix {
		return "matrix" + t.Shape.String()
	}
	return t.Kind.String()
}

// Symbol is an entry of the scope table.
type Symbol struct {
	Name string
	Type Type
	Line int // line of the assignment which created the symbol
}

// arithmetic returns the type of a scalar arithmetic operation.
func arithmetic(op string, l, r Type) Type {
	switch {
	case op == "/" || l.Kind == Float || r.Kind == Float:
		return floatType
	case l.Kind == Int && r.Kind == Int:
		return intType
	}
	return numberType
}

// mergeShapes combines two matching shapes, preferring known dimensions.
func mergeShapes(a, b mlang.Shape) mlang.Shape {
	merged := make(mlang.Shape, len(a))
	for i := range a {
		merged[i] = a[i]
		if merged[i] == mlang.Unknown {
			merged[i] = b[i]
		}
	}
	return merged
}
