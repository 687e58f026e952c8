package mlang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFormatFloat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang")
	defer teardown()
	//
	for i, x := range []struct {
		f    float64
		text string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{-3.5, "-3.5"},
		{0.1, "0.1"},
		{1.0 / 3.0, "0.3333333333333333"},
		{1e-7, "1e-07"},
		{1e20, "1e+20"},
	} {
		if s := Float(x.f).String(); s != x.text {
			t.Errorf("test %d: expected %s, got %s", i, x.text, s)
		}
	}
}

func TestMatrixString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang")
	defer teardown()
	//
	m := Matrix{Matrix{Int(1), Float(2)}, Matrix{Int(3), Int(4)}}
	if s := m.String(); s != "[[1, 2.0], [3, 4]]" {
		t.Errorf("unexpected text form of matrix: %s", s)
	}
	if s := (Matrix{}).String(); s != "[]" {
		t.Errorf("unexpected text form of empty matrix: %s", s)
	}
}

func TestNewMatrixAndClone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang")
	defer teardown()
	//
	m, err := NewMatrix(Shape{2, 3, 4}, func(index []int) Value {
		return Int(index[0]*100 + index[1]*10 + index[2])
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Shape{2, 3, 4}, m.Shape()); diff != "" {
		t.Errorf("shape differs (-want +got):\n%s", diff)
	}
	if e := m[1].(Matrix)[2].(Matrix)[3]; e != Int(123) {
		t.Errorf("expected element [1,2,3] to be 123, is %v", e)
	}
	c := m.Clone()
	c[0].(Matrix)[0].(Matrix)[0] = Int(-1)
	if m[0].(Matrix)[0].(Matrix)[0] != Int(0) {
		t.Errorf("clone shares elements with original")
	}
	if _, err = NewMatrix(Shape{2, -1}, nil); !errors.Is(err, ErrShape) {
		t.Errorf("expected negative dimension to be rejected")
	}
	if _, err = NewMatrix(Shape{0, 3}, nil); !errors.Is(err, ErrShape) {
		t.Errorf("expected empty outer axis to be rejected")
	}
	e, err := NewMatrix(Shape{2, 0}, nil)
	if err != nil {
		t.Fatalf("expected empty innermost axis to be accepted, got %v", err)
	}
	if diff := cmp.Diff(Shape{2, 0}, e.Shape()); diff != "" {
		t.Errorf("shape of empty matrix differs (-want +got):\n%s", diff)
	}
}

func TestShapeAlgebra(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang")
	defer teardown()
	//
	for i, x := range []struct {
		l, r, product Shape
	}{
		{Shape{2, 3}, Shape{3, 4}, Shape{2, 4}},
		{Shape{3}, Shape{3, 2}, Shape{1, 2}},
		{Shape{2, 3}, Shape{3}, Shape{2, 1}},
		{Shape{Unknown, 3}, Shape{Unknown, 5}, Shape{Unknown, 5}},
		{Shape{2, 3}, Shape{2, 3}, nil},
		{Shape{2, 2, 2}, Shape{2, 2}, nil},
		{Shape{0}, Shape{0}, Shape{1, 1}},
		{Shape{0, 3}, Shape{3, 2}, nil},
	} {
		p, err := MulShape(x.l, x.r)
		if x.product == nil {
			if !errors.Is(err, ErrShape) {
				t.Errorf("test %d: expected shape error for %v * %v", i, x.l, x.r)
			}
			continue
		}
		if diff := cmp.Diff(x.product, p); diff != "" {
			t.Errorf("test %d: product shape differs (-want +got):\n%s", i, diff)
		}
	}
	if s, _ := TransposeShape(Shape{2, 5}); !s.Matches(Shape{5, 2}) {
		t.Errorf("expected transposed shape (5, 2), got %v", s)
	}
	if _, err := TransposeShape(Shape{2, 0}); !errors.Is(err, ErrShape) {
		t.Errorf("expected transposing (2, 0) to fail")
	}
	if _, err := TransposeShape(Shape{1, 2, 3}); err == nil {
		t.Errorf("expected transposing rank 3 to fail")
	}
	if s := (Shape{Unknown, 3}).String(); s != "(?, 3)" {
		t.Errorf("unexpected text form of shape: %s", s)
	}
}

func TestTruth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang")
	defer teardown()
	//
	for i, x := range []struct {
		v         Value
		truth, ok bool
	}{
		{Bool(true), true, true},
		{Int(0), false, true},
		{Float(0.5), true, true},
		{String("x"), false, false},
		{Matrix{Int(1)}, false, false},
	} {
		truth, ok := Truth(x.v)
		if truth != x.truth || ok != x.ok {
			t.Errorf("test %d: expected (%v, %v), got (%v, %v)", i, x.truth, x.ok, truth, ok)
		}
	}
}
