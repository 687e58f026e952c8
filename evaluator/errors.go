package evaluator

import (
	"errors"
	"fmt"
)

// ErrNoProgramToExecute flags an empty input program
var ErrNoProgramToExecute error = errors.New("no program to execute")

// ErrRuntime is the error class of all runtime errors.
var ErrRuntime = errors.New("runtime error")

// Causes of runtime errors, to be checked with errors.Is.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrIndex          = errors.New("index out of range")
	ErrUnbound        = errors.New("unbound variable")
	ErrOperandType    = errors.New("wrong operand type")
)

// RuntimeError is an error which aborted the execution of a program.
// Op is the operator, built-in or statement which failed.
type RuntimeError struct {
	Line int
	Op   string
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Op, e.Err)
}

// Unwrap returns the cause of the error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Is lets every runtime error match ErrRuntime.
func (e *RuntimeError) Is(target error) bool {
	return target == ErrRuntime
}

func runtimeError(line int, op string, err error) error {
	var rterr *RuntimeError
	if errors.As(err, &rterr) {
		return err
	}
	tracer().P("line", line).Errorf("%s: %v", op, err)
	return &RuntimeError{Line: line, Op: op, Err: err}
}
