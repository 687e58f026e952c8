package semantic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSemantic is the error class of all semantic diagnostics.
var ErrSemantic = errors.New("semantic error")

// DiagKind classifies diagnostics.
type DiagKind int8

// Kinds of diagnostics
const (
	UndefinedVariable DiagKind = iota + 1
	TypeMismatch
	ShapeMismatch
	BadArgument
	BadIndex
	FlowControlOutsideLoop
)

var diagKindNames = map[DiagKind]string{
	UndefinedVariable:      "undefined variable",
	TypeMismatch:           "type mismatch",
	ShapeMismatch:          "shape mismatch",
	BadArgument:            "bad argument",
	BadIndex:               "bad index",
	FlowControlOutsideLoop: "flow control outside loop",
}

func (k DiagKind) String() string {
	if name, ok := diagKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DiagKind(%d)", int(k))
}

// Diagnostic is a single problem found by semantic analysis.
type Diagnostic struct {
	Kind    DiagKind
	Line    int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

// Unwrap makes every diagnostic match ErrSemantic.
func (d Diagnostic) Unwrap() error {
	return ErrSemantic
}

// Diagnostics is the list of problems of a program, in order of discovery.
type Diagnostics []Diagnostic

// Err returns nil for an empty list, and the list itself otherwise.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}

func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap makes a list of diagnostics match ErrSemantic.
func (ds Diagnostics) Unwrap() error {
	return ErrSemantic
}

// Count returns the number of diagnostics of a given kind.
func (ds Diagnostics) Count(kind DiagKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
