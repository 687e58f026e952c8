package semantic

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/ast"
	"github.com/npillmayer/mlang/sframe"
)

// Analyzer checks programs. Its global scope survives between calls of
// Analyze, which lets a REPL check one fragment of a program after another.
type Analyzer struct {
	scopes *sframe.Stack[*Symbol]
	loops  *arraystack.Stack // of enclosing loop kinds, innermost on top
	diags  Diagnostics
}

// NewAnalyzer creates an analyzer with an empty global scope.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		scopes: sframe.NewStack[*Symbol]("globals"),
		loops:  arraystack.New(),
	}
}

// Analyze checks a program with a fresh analyzer.
func Analyze(prog *ast.Program) Diagnostics {
	return NewAnalyzer().Analyze(prog)
}

// Analyze checks a program and returns all problems found. An empty result
// means the program may be executed.
func (a *Analyzer) Analyze(prog *ast.Program) Diagnostics {
	a.diags = nil
	a.loops.Clear()
	a.scopes.Unwind(1)
	if prog != nil {
		a.statements(prog.Instructions)
	}
	tracer().Infof("semantic analysis found %d problem(s)", len(a.diags))
	return a.diags
}

// Globals returns the global scope.
func (a *Analyzer) Globals() *sframe.Frame[*Symbol] {
	return a.scopes.Globals()
}

func (a *Analyzer) report(kind DiagKind, line int, format string, args ...interface{}) {
	d := Diagnostic{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
	tracer().Debugf("%v", d)
	a.diags = append(a.diags, d)
}

// --- Statements ------------------------------------------------------------

func (a *Analyzer) statements(list []ast.Node) {
	for _, stmt := range list {
		a.statement(stmt)
	}
}

func (a *Analyzer) statement(n ast.Node) {
	switch x := n.(type) {
	case *ast.Block:
		a.scopes.WithFrame("block", func() error {
			a.statements(x.Instructions)
			return nil
		})
	case *ast.Assignment:
		a.assignment(x)
	case *ast.FunctionalInstruction:
		if x.Name == "print" {
			for _, arg := range x.Args {
				a.expr(arg)
			}
		} else {
			a.expr(x)
		}
	case *ast.Ifstatement:
		a.condition(x.Condition)
		a.statement(x.Then)
		if x.Else != nil {
			a.statement(x.Else)
		}
	case *ast.WhileInstruction:
		a.condition(x.Condition)
		a.loopBody("while", x.Body)
	case *ast.ForLoopInstruction:
		a.forLoop(x)
	case *ast.FlowControlInstruction:
		if a.loops.Empty() {
			a.report(FlowControlOutsideLoop, x.Line(), "%s outside of a loop", x.Kind)
		}
		if x.Operand != nil {
			a.expr(x.Operand)
		}
	case *ast.Program:
		a.statements(x.Instructions)
	default:
		a.expr(n)
	}
}

// loopBody checks the body of a loop in a scope of its own. A block as body
// does not open a second scope, in line with the interpreter.
func (a *Analyzer) loopBody(kind string, body ast.Node) {
	a.loops.Push(kind)
	defer a.loops.Pop()
	a.scopes.WithFrame(kind, func() error {
		if b, ok := body.(*ast.Block); ok {
			a.statements(b.Instructions)
		} else {
			a.statement(body)
		}
		return nil
	})
}

func (a *Analyzer) forLoop(x *ast.ForLoopInstruction) {
	for _, bound := range []ast.Node{x.Range.Start, x.Range.End} {
		if t := a.expr(bound); t.Known() && !t.IsInteger() {
			a.report(TypeMismatch, bound.Line(), "range bound must be an integer, is %s", t)
		}
	}
	a.scopes.Define(x.Var.Name, &Symbol{Name: x.Var.Name, Type: intType, Line: x.Line()})
	a.loopBody("for", x.Body)
}

func (a *Analyzer) condition(cond ast.Node) {
	t := a.expr(cond)
	if t.Known() && t.Kind != Bool && !t.IsNumeric() {
		a.report(TypeMismatch, cond.Line(), "condition must be boolean, is %s", t)
	}
}

func (a *Analyzer) assignment(x *ast.Assignment) {
	rhs := a.expr(x.Expr)
	binop, compound := ast.CompoundOp(x.Op)
	switch target := x.Target.(type) {
	case *ast.Variable:
		sym, found := a.scopes.Lookup(target.Name)
		if compound {
			if !found {
				a.report(UndefinedVariable, target.Line(), "%s is not defined", target.Name)
				return
			}
			rhs = a.binary(binop, sym.Type, rhs, x.Line())
		}
		if !found {
			a.scopes.Define(target.Name, &Symbol{Name: target.Name, Type: rhs, Line: x.Line()})
			return
		}
		if !sym.Type.Equal(rhs) {
			tracer().P("var", target.Name).Debugf("retyping from %s to %s", sym.Type, rhs)
		}
		sym.Type = rhs
	case *ast.Reference:
		elem := a.reference(target)
		if compound {
			rhs = a.binary(binop, elem, rhs, x.Line())
		}
		if !elem.Known() || !rhs.Known() {
			return
		}
		switch {
		case elem.IsNumeric() && !rhs.IsNumeric():
			a.report(TypeMismatch, x.Line(), "cannot assign %s to element of %s", rhs, target.Base.Name)
		case elem.IsMatrix() && !rhs.IsMatrix():
			a.report(TypeMismatch, x.Line(), "cannot assign %s to %s of %s", rhs, elem, target.Base.Name)
		case elem.IsMatrix() && !elem.Shape.Matches(rhs.Shape):
			a.report(ShapeMismatch, x.Line(), "cannot assign %s to %s of %s", rhs, elem, target.Base.Name)
		}
	default:
		a.report(TypeMismatch, x.Line(), "cannot assign to %T", x.Target)
	}
}

// --- Expressions -----------------------------------------------------------

func (a *Analyzer) expr(n ast.Node) Type {
	switch x := n.(type) {
	case *ast.Integer:
		return intType
	case *ast.Float:
		return floatType
	case *ast.String:
		return stringType
	case *ast.Variable:
		sym, ok := a.scopes.Lookup(x.Name)
		if !ok {
			a.report(UndefinedVariable, x.Line(), "%s is not defined", x.Name)
			return unknownType
		}
		return sym.Type
	case *ast.Vector:
		return a.vector(x)
	case *ast.Reference:
		return a.reference(x)
	case *ast.BinaryOperation:
		l := a.expr(x.Left)
		r := a.expr(x.Right)
		return a.binary(x.Op, l, r, x.Line())
	case *ast.UnaryOperation:
		return a.unary(x.Op, a.expr(x.Operand), x.Line())
	case *ast.FunctionalInstruction:
		return a.constructor(x)
	}
	tracer().Errorf("unexpected node %T in expression", n)
	for _, c := range ast.Children(n) {
		a.statement(c)
	}
	return unknownType
}

func (a *Analyzer) vector(v *ast.Vector) Type {
	shape, err := v.Shape()
	a.vectorLeaves(v)
	if err != nil {
		a.report(ShapeMismatch, v.Line(), "vector literal is not rectangular")
		return unknownType
	}
	return MatrixOf(shape)
}

func (a *Analyzer) vectorLeaves(v *ast.Vector) {
	for _, e := range v.Elements {
		if sub, ok := e.(*ast.Vector); ok {
			a.vectorLeaves(sub)
			continue
		}
		if t := a.expr(e); t.Known() && !t.IsNumeric() {
			a.report(TypeMismatch, e.Line(), "vector elements must be numeric, found %s", t)
		}
	}
}

func (a *Analyzer) reference(ref *ast.Reference) Type {
	base := a.expr(ref.Base)
	index := ref.Index.Elements
	if !base.Known() {
		for _, e := range index {
			a.expr(e)
		}
		return unknownType
	}
	if !base.IsMatrix() {
		a.report(TypeMismatch, ref.Line(), "cannot index %s of type %s", ref.Base.Name, base)
		return unknownType
	}
	rank := base.Shape.Rank()
	if len(index) == 0 || len(index) > rank {
		a.report(BadIndex, ref.Line(), "%s of shape %v cannot take %d indices",
			ref.Base.Name, base.Shape, len(index))
		return unknownType
	}
	for axis, e := range index {
		if lit, ok := e.(*ast.Integer); ok {
			dim := base.Shape[axis]
			if lit.Value < 0 || (dim != mlang.Unknown && lit.Value >= int64(dim)) {
				a.report(BadIndex, e.Line(), "index %d out of range [0, %d) for axis %d of %s",
					lit.Value, dim, axis, ref.Base.Name)
			}
			continue
		}
		if t := a.expr(e); t.Known() && !t.IsInteger() {
			a.report(BadIndex, e.Line(), "index for axis %d of %s must be an integer, is %s",
				axis, ref.Base.Name, t)
		}
	}
	if len(index) == rank {
		return numberType
	}
	return MatrixOf(base.Shape[len(index):])
}

// binary implements the compatibility table of binary operators.
func (a *Analyzer) binary(op string, l, r Type, line int) Type {
	if !l.Known() || !r.Known() {
		return unknownType
	}
	switch {
	case ast.IsRelational(op):
		if l.IsNumeric() && r.IsNumeric() || l.Kind == String && r.Kind == String {
			return boolType
		}
		if l.Kind == Bool && r.Kind == Bool && (op == "==" || op == "!=") {
			return boolType
		}
	case ast.IsElementwise(op):
		if l.IsMatrix() && r.IsMatrix() {
			return a.sameShape(op, l, r, line)
		}
	case op == "+" || op == "-":
		switch {
		case l.IsNumeric() && r.IsNumeric():
			return arithmetic(op, l, r)
		case op == "+" && l.Kind == String && r.Kind == String:
			return stringType
		case l.IsMatrix() && r.IsMatrix():
			return a.sameShape(op, l, r, line)
		}
	case op == "*":
		switch {
		case l.IsNumeric() && r.IsNumeric():
			return arithmetic(op, l, r)
		case l.IsNumeric() && r.IsMatrix():
			return r
		case l.IsMatrix() && r.IsNumeric():
			return l
		case l.IsMatrix() && r.IsMatrix():
			shape, err := mlang.MulShape(l.Shape, r.Shape)
			if err != nil {
				a.report(ShapeMismatch, line, "%v", err)
				return unknownType
			}
			return MatrixOf(shape)
		}
	case op == "/":
		if l.IsNumeric() && r.IsNumeric() {
			return arithmetic(op, l, r)
		}
	}
	a.report(TypeMismatch, line, "operator %s not defined for %s and %s", op, l, r)
	return unknownType
}

func (a *Analyzer) sameShape(op string, l, r Type, line int) Type {
	if !l.Shape.Matches(r.Shape) {
		a.report(ShapeMismatch, line, "operator %s needs equal shapes, have %v and %v", op, l.Shape, r.Shape)
		return unknownType
	}
	return MatrixOf(mergeShapes(l.Shape, r.Shape))
}

func (a *Analyzer) unary(op string, t Type, line int) Type {
	if !t.Known() {
		return unknownType
	}
	switch op {
	case "-":
		if t.IsNumeric() || t.IsMatrix() {
			return t
		}
	case ast.Transpose:
		if t.IsMatrix() {
			shape, err := mlang.TransposeShape(t.Shape)
			if err != nil {
				a.report(ShapeMismatch, line, "%v", err)
				return unknownType
			}
			return MatrixOf(shape)
		}
	}
	a.report(TypeMismatch, line, "operator %s not defined for %s", op, t)
	return unknownType
}

// constructor checks eye, zeros and ones.
func (a *Analyzer) constructor(fn *ast.FunctionalInstruction) Type {
	switch fn.Name {
	case "eye", "zeros", "ones":
	default:
		a.report(BadArgument, fn.Line(), "%s cannot be used as an expression", fn.Name)
		return unknownType
	}
	if len(fn.Args) < 1 || len(fn.Args) > 2 {
		a.report(BadArgument, fn.Line(), "%s expects 1 or 2 arguments, got %d", fn.Name, len(fn.Args))
		for _, arg := range fn.Args {
			a.expr(arg)
		}
		return unknownType
	}
	shape := make(mlang.Shape, 0, 2)
	for _, arg := range fn.Args {
		t := a.expr(arg)
		if t.Known() && !t.IsInteger() {
			a.report(BadArgument, arg.Line(), "size argument of %s must be an integer, is %s", fn.Name, t)
		}
		dim := mlang.Unknown
		if lit, ok := arg.(*ast.Integer); ok {
			if lit.Value < 1 {
				a.report(BadArgument, arg.Line(), "size argument of %s must be positive", fn.Name)
			} else {
				dim = int(lit.Value)
			}
		}
		shape = append(shape, dim)
	}
	if len(shape) == 1 {
		shape = append(shape, shape[0])
	}
	return MatrixOf(shape)
}
