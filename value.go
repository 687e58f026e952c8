package mlang

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueType represents the type of a runtime value.
type ValueType int8

// Predefined value types
const (
	Undefined ValueType = iota
	IntType
	FloatType
	StringType
	BoolType
	MatrixType
)

var valueTypeNames = [...]string{"undefined", "int", "float", "string", "bool", "matrix"}

func (vt ValueType) String() string {
	if vt >= 0 && int(vt) < len(valueTypeNames) {
		return valueTypeNames[vt]
	}
	return fmt.Sprintf("ValueType(%d)", int(vt))
}

// IsNumeric is a predicate: is vt either int or float?
func (vt ValueType) IsNumeric() bool {
	return vt == IntType || vt == FloatType
}

// --- Value -----------------------------------------------------------------

// Value is an interface for all values which mlang programs can handle.
// String returns the text form used by print.
type Value interface {
	Type() ValueType
	String() string
}

// Int is an integer scalar.
type Int int64

// Float is a floating point scalar.
type Float float64

// String is a string scalar.
type String string

// Bool is the result type of relational operators.
type Bool bool

// Type returns IntType.
func (i Int) Type() ValueType { return IntType }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Type returns FloatType.
func (f Float) Type() ValueType { return FloatType }

func (f Float) String() string { return formatFloat(float64(f)) }

// Type returns StringType.
func (s String) Type() ValueType { return StringType }

func (s String) String() string { return string(s) }

// Type returns BoolType.
func (b Bool) Type() ValueType { return BoolType }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// formatFloat prints floats the way users of the language expect: integral
// values keep a trailing ".0", very small or large values use an exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// AsFloat returns a numeric value as a float64. The second return value is
// false if v is not numeric.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	}
	return 0, false
}

// Truth interprets a value as a condition. Numbers are true if non-zero.
// The second return value is false if v cannot serve as a condition.
func Truth(v Value) (bool, bool) {
	switch x := v.(type) {
	case Bool:
		return bool(x), true
	case Int:
		return x != 0, true
	case Float:
		return x != 0, true
	}
	return false, false
}

// --- Matrix ----------------------------------------------------------------

// Matrix is a rectangular nested sequence of values. The elements of a rank-1
// matrix are numeric scalars, the elements of higher rank matrices are
// matrices of identical shape.
//
// Matrix is a slice type: copies of a Matrix value share their elements.
// Use Clone to get an independent copy.
type Matrix []Value

// Type returns MatrixType.
func (m Matrix) Type() ValueType { return MatrixType }

func (m Matrix) String() string {
	var b strings.Builder
	m.format(&b)
	return b.String()
}

func (m Matrix) format(b *strings.Builder) {
	b.WriteByte('[')
	for i, e := range m {
		if i > 0 {
			b.WriteString(", ")
		}
		if sub, ok := e.(Matrix); ok {
			sub.format(b)
		} else {
			b.WriteString(e.String())
		}
	}
	b.WriteByte(']')
}

// Shape returns the dimensions of m, outermost first.
func (m Matrix) Shape() Shape {
	shape := Shape{len(m)}
	if len(m) > 0 {
		if sub, ok := m[0].(Matrix); ok {
			shape = append(shape, sub.Shape()...)
		}
	}
	return shape
}

// Clone creates a deep copy of m.
func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i, e := range m {
		if sub, ok := e.(Matrix); ok {
			c[i] = sub.Clone()
		} else {
			c[i] = e
		}
	}
	return c
}

// NewMatrix allocates a matrix of a given shape. Every element is produced by
// fill, which receives the element's index. All dimensions must be known and
// non-negative, and the shape must be representable.
func NewMatrix(shape Shape, fill func(index []int) Value) (Matrix, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: cannot create a matrix of rank 0", ErrShape)
	}
	for _, d := range shape {
		if d < 0 {
			tracer().Errorf("matrix dimensions must not be negative: %v", shape)
			return nil, fmt.Errorf("%w: invalid matrix dimensions %v", ErrShape, shape)
		}
	}
	if !shape.Representable() {
		return nil, fmt.Errorf("%w: matrix of shape %v has an empty outer axis", ErrShape, shape)
	}
	return build(shape, nil, fill), nil
}

func build(shape Shape, prefix []int, fill func([]int) Value) Matrix {
	m := make(Matrix, shape[0])
	for i := range m {
		index := append(prefix[:len(prefix):len(prefix)], i)
		if len(shape) == 1 {
			m[i] = fill(index)
		} else {
			m[i] = build(shape[1:], index, fill)
		}
	}
	return m
}

// --- Shapes ----------------------------------------------------------------

// ErrShape is the error class for incompatible or malformed shapes.
var ErrShape = errors.New("shape mismatch")

// Unknown marks a dimension which is not known before runtime.
const Unknown = -1

// Shape is a tuple of per-axis lengths of a matrix. Its length is the rank.
type Shape []int

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// Matches is a predicate: do s and o have the same rank and compatible
// dimensions? Unknown dimensions match any size.
func (s Shape) Matches(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !dimMatches(s[i], o[i]) {
			return false
		}
	}
	return true
}

// Representable is a predicate: can a matrix of shape s be stored? The shape
// of a matrix is read from its first elements, so only the innermost axis may
// be empty.
func (s Shape) Representable() bool {
	for i := 0; i < len(s)-1; i++ {
		if s[i] == 0 {
			return false
		}
	}
	return true
}

func dimMatches(a, b int) bool {
	return a == b || a == Unknown || b == Unknown
}

func (s Shape) String() string {
	dims := make([]string, len(s))
	for i, d := range s {
		if d == Unknown {
			dims[i] = "?"
		} else {
			dims[i] = strconv.Itoa(d)
		}
	}
	return "(" + strings.Join(dims, ", ") + ")"
}

// MulShape calculates the shape of the matrix product l*r. Both operands
// must be of rank 1 or 2. A rank-1 left operand is treated as a row vector,
// a rank-1 right operand as a column vector.
func MulShape(l, r Shape) (Shape, error) {
	if l.Rank() < 1 || l.Rank() > 2 || r.Rank() < 1 || r.Rank() > 2 {
		return nil, fmt.Errorf("%w: cannot multiply matrices of shapes %v and %v (rank must be 1 or 2)",
			ErrShape, l, r)
	}
	if l.Rank() == 1 {
		l = Shape{1, l[0]}
	}
	if r.Rank() == 1 {
		r = Shape{r[0], 1}
	}
	if !dimMatches(l[1], r[0]) {
		return nil, fmt.Errorf("%w: cannot multiply matrices of shapes %v and %v", ErrShape, l, r)
	}
	if p := (Shape{l[0], r[1]}); p.Representable() {
		return p, nil
	}
	return nil, fmt.Errorf("%w: product of shapes %v and %v has an empty outer axis", ErrShape, l, r)
}

// TransposeShape calculates the shape of a transposed matrix. Rank-1 shapes are
// left unchanged, rank-2 shapes are reversed.
func TransposeShape(s Shape) (Shape, error) {
	switch s.Rank() {
	case 1:
		return Shape{s[0]}, nil
	case 2:
		if s[1] == 0 {
			return nil, fmt.Errorf("%w: transpose of %v has an empty outer axis", ErrShape, s)
		}
		return Shape{s[1], s[0]}, nil
	}
	return nil, fmt.Errorf("%w: cannot transpose matrix of shape %v", ErrShape, s)
}
