package sframe

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Frame is a mapping from names to bindings, tied to the lifetime of a lexical
// block or loop iteration. Frames chain to an enclosing parent frame for
// lookup. During static analysis bindings are symbols; at runtime they are
// values.
type Frame[T any] struct {
	Name   string
	Parent *Frame[T]
	table  *treemap.Map // name → T, ordered by name
}

// NewFrame creates an empty frame with a given parent, which may be nil.
func NewFrame[T any](name string, parent *Frame[T]) *Frame[T] {
	return &Frame[T]{
		Name:   name,
		Parent: parent,
		table:  treemap.NewWithStringComparator(),
	}
}

// Lookup finds a binding in this frame only.
func (f *Frame[T]) Lookup(name string) (T, bool) {
	if v, found := f.table.Get(name); found {
		return v.(T), true
	}
	var zero T
	return zero, false
}

// Define creates or overwrites a binding in this frame.
func (f *Frame[T]) Define(name string, value T) {
	f.table.Put(name, value)
}

// Resolve finds a binding in this frame or, if not found, in the chain of
// enclosing frames. It returns the frame the binding was found in.
func (f *Frame[T]) Resolve(name string) (T, *Frame[T], bool) {
	for fr := f; fr != nil; fr = fr.Parent {
		if v, ok := fr.Lookup(name); ok {
			return v, fr, true
		}
	}
	var zero T
	return zero, nil, false
}

// Names returns the names bound in this frame, in lexical order.
func (f *Frame[T]) Names() []string {
	keys := f.table.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// Each calls fn for every binding of this frame, in lexical order of names.
func (f *Frame[T]) Each(fn func(name string, value T)) {
	it := f.table.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(T))
	}
}

func (f *Frame[T]) String() string {
	return fmt.Sprintf("⟨frame %s: %s⟩", f.Name, strings.Join(f.Names(), ", "))
}

// --- Stack of frames -------------------------------------------------------

// Stack is the path of live frames from the global frame to the innermost
// one. Frames are pushed when a block or loop body is entered and popped when
// it is left. Sibling frames are never kept.
type Stack[T any] struct {
	frames *arraystack.Stack // of *Frame[T]
	base   *Frame[T]
}

// NewStack creates a stack holding a single global frame.
func NewStack[T any](globalName string) *Stack[T] {
	st := &Stack[T]{frames: arraystack.New()}
	st.base = NewFrame[T](globalName, nil)
	st.frames.Push(st.base)
	return st
}

// Current gets the innermost frame (TOS).
func (st *Stack[T]) Current() *Frame[T] {
	tos, ok := st.frames.Peek()
	if !ok {
		panic("attempt to access frame from empty stack")
	}
	return tos.(*Frame[T])
}

// Globals gets the outermost frame, containing global bindings.
func (st *Stack[T]) Globals() *Frame[T] {
	return st.base
}

// Depth returns the number of live frames, including the global frame.
func (st *Stack[T]) Depth() int {
	return st.frames.Size()
}

// PushNewFrame pushes a new, empty frame. Its parent is the current frame.
func (st *Stack[T]) PushNewFrame(name string) *Frame[T] {
	fr := NewFrame(name, st.Current())
	st.frames.Push(fr)
	tracer().P("frame", name).Debugf("pushing new frame, depth=%d", st.Depth())
	return fr
}

// PopFrame pops the innermost frame. The global frame cannot be popped.
func (st *Stack[T]) PopFrame() *Frame[T] {
	if st.frames.Size() <= 1 {
		panic("attempt to pop global frame")
	}
	fr, _ := st.frames.Pop()
	tracer().P("frame", fr.(*Frame[T]).Name).Debugf("popping frame")
	return fr.(*Frame[T])
}

// Unwind pops frames until depth frames are left. It is used to clean up
// after an aborted evaluation.
func (st *Stack[T]) Unwind(depth int) {
	if depth < 1 {
		depth = 1
	}
	for st.frames.Size() > depth {
		st.frames.Pop()
	}
}

// WithFrame pushes a new frame, calls fn and pops the frame again, no matter
// how fn returns.
func (st *Stack[T]) WithFrame(name string, fn func() error) error {
	st.PushNewFrame(name)
	defer st.PopFrame()
	return fn()
}

// Lookup finds a binding in the chain of live frames, innermost first.
func (st *Stack[T]) Lookup(name string) (T, bool) {
	v, _, ok := st.Current().Resolve(name)
	return v, ok
}

// Define binds a name in the current frame.
func (st *Stack[T]) Define(name string, value T) {
	st.Current().Define(name, value)
}

// Set overwrites a binding in the innermost frame where name is visible. If
// name is not bound in any live frame, it is bound in the current frame.
// Set returns true if a new binding has been created.
func (st *Stack[T]) Set(name string, value T) bool {
	if _, fr, ok := st.Current().Resolve(name); ok {
		fr.Define(name, value)
		return false
	}
	st.Current().Define(name, value)
	return true
}
