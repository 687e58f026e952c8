package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/ast"
	"github.com/npillmayer/mlang/sframe"
)

// SignalKind tells how a statement completed.
type SignalKind int8

// Kinds of completion
const (
	Normal SignalKind = iota
	Break
	Continue
	Return
)

func (k SignalKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	}
	return "?"
}

// Signal is the result of executing a statement. Value is set for returns
// carrying a value only.
type Signal struct {
	Kind  SignalKind
	Value mlang.Value
}

var normal = Signal{Kind: Normal}

// Interpreter executes mlang programs. Its global frame survives between
// calls of Run, which lets a REPL execute one fragment after another.
type Interpreter struct {
	memory *sframe.Stack[mlang.Value]
	out    io.Writer // print writes here
}

// NewInterpreter creates an interpreter with an empty global frame. Output of
// print statements goes to w, or to stdout if w is nil.
func NewInterpreter(w io.Writer) *Interpreter {
	if w == nil {
		w = os.Stdout
	}
	return &Interpreter{
		memory: sframe.NewStack[mlang.Value]("globals"),
		out:    w,
	}
}

// SetOutput redirects the output of print statements.
func (intp *Interpreter) SetOutput(w io.Writer) {
	intp.out = w
}

// Globals returns the global memory frame.
func (intp *Interpreter) Globals() *sframe.Frame[mlang.Value] {
	return intp.memory.Globals()
}

// Run executes a program. If the program terminates with a return statement,
// the returned value is the value of its expression (possibly nil).
// Execution stops at the first runtime error.
func (intp *Interpreter) Run(prog *ast.Program) (mlang.Value, error) {
	if prog == nil {
		tracer().Errorf("empty program?")
		return nil, ErrNoProgramToExecute
	}
	defer intp.memory.Unwind(1)
	sig, err := intp.statements(prog.Instructions)
	if err != nil {
		return nil, err
	}
	switch sig.Kind {
	case Break, Continue:
		return nil, runtimeError(prog.Line(), sig.Kind.String(), fmt.Errorf("not inside a loop"))
	case Return:
		tracer().Debugf("program returned %v", sig.Value)
		return sig.Value, nil
	}
	return nil, nil
}

// --- Statements ------------------------------------------------------------

// statements executes a list of statements. A signal other than normal
// completion skips all following statements.
func (intp *Interpreter) statements(list []ast.Node) (Signal, error) {
	for _, stmt := range list {
		sig, err := intp.statement(stmt)
		if err != nil || sig.Kind != Normal {
			return sig, err
		}
	}
	return normal, nil
}

func (intp *Interpreter) statement(n ast.Node) (sig Signal, err error) {
	switch x := n.(type) {
	case *ast.Block:
		err = intp.memory.WithFrame("block", func() error {
			sig, err = intp.statements(x.Instructions)
			return err
		})
		return sig, err
	case *ast.Assignment:
		return normal, intp.assign(x)
	case *ast.FunctionalInstruction:
		if x.Name == "print" {
			return normal, intp.print(x)
		}
		_, err = intp.construct(x)
		return normal, err
	case *ast.Ifstatement:
		return intp.ifStatement(x)
	case *ast.WhileInstruction:
		return intp.whileLoop(x)
	case *ast.ForLoopInstruction:
		return intp.forLoop(x)
	case *ast.FlowControlInstruction:
		return intp.flowControl(x)
	case *ast.Program:
		return intp.statements(x.Instructions)
	}
	_, err = intp.eval(n)
	return normal, err
}

func (intp *Interpreter) flowControl(x *ast.FlowControlInstruction) (Signal, error) {
	switch x.Kind {
	case ast.Break:
		return Signal{Kind: Break}, nil
	case ast.Continue:
		return Signal{Kind: Continue}, nil
	}
	sig := Signal{Kind: Return}
	if x.Operand != nil {
		v, err := intp.eval(x.Operand)
		if err != nil {
			return normal, err
		}
		sig.Value = v
	}
	return sig, nil
}

func (intp *Interpreter) ifStatement(x *ast.Ifstatement) (Signal, error) {
	yes, err := intp.condition(x.Condition)
	if err != nil {
		return normal, err
	}
	if yes {
		return intp.statement(x.Then)
	} else if x.Else != nil {
		return intp.statement(x.Else)
	}
	return normal, nil
}

func (intp *Interpreter) condition(cond ast.Node) (bool, error) {
	v, err := intp.eval(cond)
	if err != nil {
		return false, err
	}
	yes, ok := mlang.Truth(v)
	if !ok {
		return false, runtimeError(cond.Line(), "condition",
			fmt.Errorf("%w: condition must be boolean, is %s", ErrOperandType, v.Type()))
	}
	return yes, nil
}

// iteration runs a loop body in a frame of its own. A block as body does not
// open a second frame.
func (intp *Interpreter) iteration(name string, body ast.Node) (sig Signal, err error) {
	err = intp.memory.WithFrame(name, func() error {
		if b, ok := body.(*ast.Block); ok {
			sig, err = intp.statements(b.Instructions)
		} else {
			sig, err = intp.statement(body)
		}
		return err
	})
	return sig, err
}

func (intp *Interpreter) whileLoop(x *ast.WhileInstruction) (Signal, error) {
	for {
		yes, err := intp.condition(x.Condition)
		if err != nil || !yes {
			return normal, err
		}
		sig, err := intp.iteration("while", x.Body)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case Break:
			return normal, nil
		case Return:
			return sig, nil
		}
	}
}

// forLoop iterates over [start, end). The loop variable is bound in the
// current frame and rebound before every iteration, so assignments to it
// within the body do not change the number of iterations.
func (intp *Interpreter) forLoop(x *ast.ForLoopInstruction) (Signal, error) {
	var bounds [2]int64
	for i, b := range []ast.Node{x.Range.Start, x.Range.End} {
		v, err := intp.eval(b)
		if err != nil {
			return normal, err
		}
		n, ok := v.(mlang.Int)
		if !ok {
			return normal, runtimeError(b.Line(), "for",
				fmt.Errorf("%w: range bound must be an integer, is %s", ErrOperandType, v.Type()))
		}
		bounds[i] = int64(n)
	}
	tracer().P("var", x.Var.Name).Debugf("for loop over [%d, %d)", bounds[0], bounds[1])
	for i := bounds[0]; i < bounds[1]; i++ {
		intp.memory.Define(x.Var.Name, mlang.Int(i))
		sig, err := intp.iteration("for", x.Body)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case Break:
			return normal, nil
		case Return:
			return sig, nil
		}
	}
	return normal, nil
}

// --- Assignment ------------------------------------------------------------

func (intp *Interpreter) assign(x *ast.Assignment) error {
	rhs, err := intp.eval(x.Expr)
	if err != nil {
		return err
	}
	binop, compound := ast.CompoundOp(x.Op)
	switch target := x.Target.(type) {
	case *ast.Variable:
		if compound {
			old, ok := intp.memory.Lookup(target.Name)
			if !ok {
				return runtimeError(x.Line(), x.Op, fmt.Errorf("%w: %s", ErrUnbound, target.Name))
			}
			if rhs, err = binary(binop, old, rhs); err != nil {
				return runtimeError(x.Line(), x.Op, err)
			}
		} else if m, ok := rhs.(mlang.Matrix); ok {
			rhs = m.Clone()
		}
		if intp.memory.Set(target.Name, rhs) {
			tracer().P("var", target.Name).Debugf("new binding in frame %s", intp.memory.Current().Name)
		}
		return nil
	case *ast.Reference:
		return intp.assignElement(target, binop, compound, rhs, x)
	}
	return runtimeError(x.Line(), x.Op, fmt.Errorf("cannot assign to %T", x.Target))
}

// assignElement mutates an element or a sub-matrix of a matrix in place.
func (intp *Interpreter) assignElement(ref *ast.Reference, binop string, compound bool,
	rhs mlang.Value, x *ast.Assignment) error {
	//
	index, err := intp.indices(ref)
	if err != nil {
		return err
	}
	base, err := intp.matrix(ref)
	if err != nil {
		return err
	}
	container, err := walk(base, index[:len(index)-1])
	if err != nil {
		return runtimeError(ref.Line(), ref.Base.Name, err)
	}
	last := index[len(index)-1]
	if last < 0 || last >= len(container) {
		return runtimeError(ref.Line(), ref.Base.Name,
			fmt.Errorf("%w: index %d for axis of length %d", ErrIndex, last, len(container)))
	}
	old := container[last]
	if compound {
		if rhs, err = binary(binop, old, rhs); err != nil {
			return runtimeError(x.Line(), x.Op, err)
		}
	}
	switch o := old.(type) {
	case mlang.Matrix:
		m, ok := rhs.(mlang.Matrix)
		if !ok {
			return runtimeError(x.Line(), x.Op,
				fmt.Errorf("%w: cannot assign %s to sub-matrix of %s", ErrOperandType, rhs.Type(), ref.Base.Name))
		}
		if have, got := o.Shape(), m.Shape(); !have.Matches(got) {
			return runtimeError(x.Line(), x.Op,
				fmt.Errorf("%w: cannot assign matrix of shape %v to sub-matrix of shape %v", mlang.ErrShape, got, have))
		}
		rhs = m.Clone()
	default:
		if !rhs.Type().IsNumeric() {
			return runtimeError(x.Line(), x.Op,
				fmt.Errorf("%w: cannot assign %s to element of %s", ErrOperandType, rhs.Type(), ref.Base.Name))
		}
	}
	container[last] = rhs
	return nil
}

// --- Expressions -----------------------------------------------------------

func (intp *Interpreter) eval(n ast.Node) (mlang.Value, error) {
	switch x := n.(type) {
	case *ast.Integer:
		return mlang.Int(x.Value), nil
	case *ast.Float:
		return mlang.Float(x.Value), nil
	case *ast.String:
		return mlang.String(x.Value), nil
	case *ast.Variable:
		v, ok := intp.memory.Lookup(x.Name)
		if !ok {
			return nil, runtimeError(x.Line(), x.Name, ErrUnbound)
		}
		return v, nil
	case *ast.Vector:
		return intp.vector(x)
	case *ast.Reference:
		return intp.element(x)
	case *ast.BinaryOperation:
		l, err := intp.eval(x.Left)
		if err != nil {
			return nil, err
		}
		r, err := intp.eval(x.Right)
		if err != nil {
			return nil, err
		}
		v, err := binary(x.Op, l, r)
		if err != nil {
			return nil, runtimeError(x.Line(), x.Op, err)
		}
		return v, nil
	case *ast.UnaryOperation:
		operand, err := intp.eval(x.Operand)
		if err != nil {
			return nil, err
		}
		v, err := unary(x.Op, operand)
		if err != nil {
			return nil, runtimeError(x.Line(), x.Op, err)
		}
		return v, nil
	case *ast.FunctionalInstruction:
		return intp.construct(x)
	}
	return nil, runtimeError(n.Line(), fmt.Sprintf("%T", n), fmt.Errorf("not an expression"))
}

// vector evaluates a vector literal. Leaves must be numeric scalars and
// nested vectors must be of equal shape.
func (intp *Interpreter) vector(v *ast.Vector) (mlang.Value, error) {
	if _, err := v.Shape(); err != nil {
		return nil, runtimeError(v.Line(), "vector", err)
	}
	m := make(mlang.Matrix, len(v.Elements))
	for i, e := range v.Elements {
		val, err := intp.eval(e)
		if err != nil {
			return nil, err
		}
		if _, nested := e.(*ast.Vector); !nested && !val.Type().IsNumeric() {
			return nil, runtimeError(e.Line(), "vector",
				fmt.Errorf("%w: vector elements must be numeric, found %s", ErrOperandType, val.Type()))
		}
		m[i] = val
	}
	return m, nil
}

// element reads an element or a sub-matrix of a matrix.
func (intp *Interpreter) element(ref *ast.Reference) (mlang.Value, error) {
	index, err := intp.indices(ref)
	if err != nil {
		return nil, err
	}
	base, err := intp.matrix(ref)
	if err != nil {
		return nil, err
	}
	container, err := walk(base, index[:len(index)-1])
	if err != nil {
		return nil, runtimeError(ref.Line(), ref.Base.Name, err)
	}
	last := index[len(index)-1]
	if last < 0 || last >= len(container) {
		return nil, runtimeError(ref.Line(), ref.Base.Name,
			fmt.Errorf("%w: index %d for axis of length %d", ErrIndex, last, len(container)))
	}
	return container[last], nil
}

// matrix looks up the base variable of a reference, which must be a matrix.
func (intp *Interpreter) matrix(ref *ast.Reference) (mlang.Matrix, error) {
	v, ok := intp.memory.Lookup(ref.Base.Name)
	if !ok {
		return nil, runtimeError(ref.Line(), ref.Base.Name, ErrUnbound)
	}
	m, ok := v.(mlang.Matrix)
	if !ok {
		return nil, runtimeError(ref.Line(), ref.Base.Name,
			fmt.Errorf("%w: cannot index a value of type %s", ErrOperandType, v.Type()))
	}
	return m, nil
}

// indices evaluates the index expressions of a reference.
func (intp *Interpreter) indices(ref *ast.Reference) ([]int, error) {
	if ref.Index == nil || len(ref.Index.Elements) == 0 {
		return nil, runtimeError(ref.Line(), ref.Base.Name, fmt.Errorf("%w: missing index", ErrIndex))
	}
	index := make([]int, len(ref.Index.Elements))
	for i, e := range ref.Index.Elements {
		v, err := intp.eval(e)
		if err != nil {
			return nil, err
		}
		n, ok := v.(mlang.Int)
		if !ok {
			return nil, runtimeError(e.Line(), ref.Base.Name,
				fmt.Errorf("%w: index must be an integer, is %s", ErrOperandType, v.Type()))
		}
		index[i] = int(n)
	}
	return index, nil
}

// walk follows a path of indices down into nested matrices and returns the
// matrix reached.
func walk(m mlang.Matrix, path []int) (mlang.Matrix, error) {
	for axis, i := range path {
		if i < 0 || i >= len(m) {
			return nil, fmt.Errorf("%w: index %d for axis %d of length %d", ErrIndex, i, axis, len(m))
		}
		sub, ok := m[i].(mlang.Matrix)
		if !ok {
			return nil, fmt.Errorf("%w: too many indices, matrix has rank %d", ErrIndex, axis+1)
		}
		m = sub
	}
	return m, nil
}
