package ast

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/mlang"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func ints(values ...int64) []Node {
	nodes := make([]Node, len(values))
	for i, v := range values {
		nodes[i] = &Integer{Pos: At(1), Value: v}
	}
	return nodes
}

func vec(elements ...Node) *Vector {
	return &Vector{Pos: At(1), Elements: elements}
}

func TestVectorShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.ast")
	defer teardown()
	//
	for i, x := range []struct {
		v     *Vector
		shape mlang.Shape
	}{
		{v: vec(), shape: mlang.Shape{0}},
		{v: vec(ints(1, 2, 3)...), shape: mlang.Shape{3}},
		{v: vec(vec(ints(1, 2)...), vec(ints(3, 4)...), vec(ints(5, 6)...)), shape: mlang.Shape{3, 2}},
		{v: vec(vec(vec(ints(1)...), vec(ints(2)...))), shape: mlang.Shape{1, 2, 1}},
		{v: vec(vec(), vec()), shape: mlang.Shape{2, 0}},
	} {
		shape, err := x.v.Shape()
		if err != nil {
			t.Errorf("test %d: unexpected error: %v", i, err)
			continue
		}
		if diff := cmp.Diff(x.shape, shape); diff != "" {
			t.Errorf("test %d: shape mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRaggedVectorShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.ast")
	defer teardown()
	//
	for i, v := range []*Vector{
		vec(vec(ints(1, 2)...), vec(ints(3)...)),
		vec(vec(ints(1, 2)...), &Integer{Value: 3}),
		vec(&Integer{Value: 3}, vec(ints(1, 2)...)),
		vec(vec(vec(ints(1, 2)...)), vec(vec(ints(1)...))),
	} {
		_, err := v.Shape()
		if err == nil {
			t.Errorf("test %d: expected ragged vector to produce a shape error", i)
			continue
		}
		var serr *ShapeError
		if !errors.As(err, &serr) || !errors.Is(err, mlang.ErrShape) {
			t.Errorf("test %d: expected ShapeError, got %T", i, err)
		}
	}
}

func TestCompoundOp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.ast")
	defer teardown()
	//
	if op, ok := CompoundOp("*="); !ok || op != "*" {
		t.Errorf("expected *= to imply *, got %q", op)
	}
	if _, ok := CompoundOp("="); ok {
		t.Errorf("plain assignment is not a compound operator")
	}
	if ElementOp("./") != "/" || ElementOp("+") != "+" {
		t.Errorf("element operator of ./ should be /")
	}
}

func TestDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.ast")
	defer teardown()
	//
	prog := &Program{Instructions: []Node{
		&Assignment{
			Target: &Variable{Name: "A"},
			Op:     "=",
			Expr:   &FunctionalInstruction{Name: "zeros", Args: ints(3)},
		},
		&FunctionalInstruction{Name: "print", Args: []Node{
			&Reference{Base: &Variable{Name: "A"}, Index: vec(ints(0, 0)...)},
			&String{Value: "done"},
		}},
	}}
	want := `=
|  A
|  ZEROS
|  |  3
PRINT
|  REF
|  |  A
|  |  0
|  |  0
|  "done"
`
	if diff := cmp.Diff(want, DumpString(prog)); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.ast")
	defer teardown()
	//
	loop := &ForLoopInstruction{
		Var:   &Variable{Name: "i"},
		Range: &Range{Start: &Integer{Value: 0}, End: &Integer{Value: 3}},
		Body: &Block{Instructions: []Node{
			&FlowControlInstruction{Kind: Break},
		}},
	}
	var count int
	Walk(loop, func(n Node) bool {
		count++
		return true
	})
	if count != 7 {
		t.Errorf("expected to visit 7 nodes, visited %d", count)
	}
	count = 0
	Walk(loop, func(n Node) bool {
		count++
		_, isBlock := n.(*Block)
		return !isBlock
	})
	if count != 6 {
		t.Errorf("expected to visit 6 nodes when skipping blocks, visited %d", count)
	}
}
