package sframe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFrameDefineAndLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	fr := NewFrame[int]("test", nil)
	fr.Define("b", 2)
	fr.Define("a", 1)
	fr.Define("b", 3)
	if v, ok := fr.Lookup("b"); !ok || v != 3 {
		t.Errorf("expected b=3, got %d (found=%v)", v, ok)
	}
	if _, ok := fr.Lookup("c"); ok {
		t.Errorf("expected c to be unbound")
	}
	if diff := cmp.Diff([]string{"a", "b"}, fr.Names()); diff != "" {
		t.Errorf("names differ (-want +got):\n%s", diff)
	}
}

func TestStackVisibility(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	st := NewStack[string]("globals")
	st.Define("x", "global")
	st.PushNewFrame("block")
	if v, ok := st.Lookup("x"); !ok || v != "global" {
		t.Errorf("expected global x to be visible in inner frame")
	}
	st.Define("y", "inner")
	st.PopFrame()
	if _, ok := st.Lookup("y"); ok {
		t.Errorf("inner binding must not survive its frame")
	}
	if st.Depth() != 1 || st.Current() != st.Globals() {
		t.Errorf("expected to be back at global frame, depth = %d", st.Depth())
	}
}

func TestStackSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	st := NewStack[int]("globals")
	st.Define("x", 1)
	st.PushNewFrame("loop")
	if created := st.Set("x", 2); created {
		t.Errorf("expected x to be overwritten, not created")
	}
	if created := st.Set("z", 5); !created {
		t.Errorf("expected z to be created")
	}
	if _, ok := st.Current().Lookup("z"); !ok {
		t.Errorf("expected new binding in the innermost frame")
	}
	st.PopFrame()
	if v, _ := st.Lookup("x"); v != 2 {
		t.Errorf("expected outer x to be updated to 2, is %d", v)
	}
	if _, ok := st.Lookup("z"); ok {
		t.Errorf("z should have been dropped with its frame")
	}
}

func TestWithFramePopsOnError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	st := NewStack[int]("globals")
	failure := errors.New("fail")
	err := st.WithFrame("body", func() error {
		st.Define("tmp", 1)
		if st.Depth() != 2 {
			t.Errorf("expected depth 2 inside frame, got %d", st.Depth())
		}
		return failure
	})
	if err != failure {
		t.Errorf("expected error to be passed through, got %v", err)
	}
	if st.Depth() != 1 {
		t.Errorf("expected frame to be popped, depth = %d", st.Depth())
	}
}

func TestUnwind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	st := NewStack[int]("globals")
	st.PushNewFrame("a")
	st.PushNewFrame("b")
	st.PushNewFrame("c")
	st.Unwind(2)
	if st.Depth() != 2 || st.Current().Name != "a" {
		t.Errorf("expected to unwind to frame a, at %s", st.Current().Name)
	}
	st.Unwind(0)
	if st.Depth() != 1 {
		t.Errorf("global frame must survive unwinding")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected popping the global frame to panic")
		}
	}()
	st.PopFrame()
}
