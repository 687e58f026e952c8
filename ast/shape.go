package ast

import (
	"fmt"

	"github.com/npillmayer/mlang"
)

// ShapeError is returned by Vector.Shape for non-rectangular literals.
type ShapeError struct {
	Line  int
	Depth int         // nesting depth where the mismatch occurred, 0 = outermost
	Want  mlang.Shape // shape of the first sibling, nil if it is a scalar
	Got   mlang.Shape // shape of the offending sibling, nil if it is a scalar
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("line %d: ragged vector literal at depth %d: %s vs %s",
		e.Line, e.Depth, shapeOrScalar(e.Want), shapeOrScalar(e.Got))
}

// Unwrap makes ShapeError match mlang.ErrShape.
func (e *ShapeError) Unwrap() error {
	return mlang.ErrShape
}

func shapeOrScalar(s mlang.Shape) string {
	if s == nil {
		return "scalar"
	}
	return s.String()
}

// Shape computes the shape of a vector literal: the number of elements,
// followed by the shape of the first element if it is a vector itself.
// Every sibling sub-vector at every depth must have the same shape as its
// first sibling, otherwise a *ShapeError is returned.
//
// The empty vector has shape (0).
func (v *Vector) Shape() (mlang.Shape, error) {
	return v.shape(0)
}

func (v *Vector) shape(depth int) (mlang.Shape, error) {
	shape := mlang.Shape{len(v.Elements)}
	if len(v.Elements) == 0 {
		return shape, nil
	}
	first, err := elementShape(v.Elements[0], depth+1)
	if err != nil {
		return nil, err
	}
	for _, e := range v.Elements[1:] {
		sh, err := elementShape(e, depth+1)
		if err != nil {
			return nil, err
		}
		if !sameShape(first, sh) {
			tracer().Debugf("vector literal is not rectangular: %v vs %v", first, sh)
			return nil, &ShapeError{Line: e.Line(), Depth: depth, Want: first, Got: sh}
		}
	}
	return append(shape, first...), nil
}

// elementShape returns nil for non-vector elements.
func elementShape(n Node, depth int) (mlang.Shape, error) {
	if sub, ok := n.(*Vector); ok {
		return sub.shape(depth)
	}
	return nil, nil
}

func sameShape(a, b mlang.Shape) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
