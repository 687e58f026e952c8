package ast

// Node is the interface of all AST nodes.
type Node interface {
	Line() int // source line of the node's first token
	node()
}

// Pos is embedded in every node to remember its source line.
type Pos struct {
	LineNo int
}

// At creates a position for source line n.
func At(n int) Pos {
	return Pos{LineNo: n}
}

// Line returns the source line of a node.
func (p Pos) Line() int {
	return p.LineNo
}

func (Pos) node() {}

// --- Statements ------------------------------------------------------------

// Program is the root of every AST.
type Program struct {
	Pos
	Instructions []Node
}

// Block is a list of statements enclosed in braces. It introduces a scope.
type Block struct {
	Pos
	Instructions []Node
}

// FunctionalInstruction is a call of a built-in: print, eye, zeros or ones.
type FunctionalInstruction struct {
	Pos
	Name string
	Args []Node
}

// WhileInstruction is a loop `while (cond) body`.
type WhileInstruction struct {
	Pos
	Condition Node
	Body      Node
}

// ForLoopInstruction is a loop `for v = start:end body`.
type ForLoopInstruction struct {
	Pos
	Var   *Variable
	Range *Range
	Body  Node
}

// FlowKind is the kind of a flow control instruction.
type FlowKind int8

// Flow control instructions
const (
	Break FlowKind = iota
	Continue
	Return
)

func (k FlowKind) String() string {
	switch k {
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	}
	return "?"
}

// FlowControlInstruction is one of break, continue or return.
// Operand is nil unless a return statement carries an expression.
type FlowControlInstruction struct {
	Pos
	Kind    FlowKind
	Operand Node
}

// Ifstatement is a conditional. Else is nil if there is no else-part.
type Ifstatement struct {
	Pos
	Condition Node
	Then      Node
	Else      Node
}

// Assignment binds the value of Expr to Target, which is either a *Variable
// or a *Reference. Op is one of "=", "+=", "-=", "*=", "/=".
type Assignment struct {
	Pos
	Target Node
	Op     string
	Expr   Node
}

// --- Expressions -----------------------------------------------------------

// BinaryOperation is an infix operation.
type BinaryOperation struct {
	Pos
	Op    string
	Left  Node
	Right Node
}

// UnaryOperation is either a negation "-" or a transpose "'".
type UnaryOperation struct {
	Pos
	Op      string
	Operand Node
}

// Vector is a vector literal. Elements may be vectors themselves.
type Vector struct {
	Pos
	Elements []Node
}

// Reference is an indexed access to a matrix, as in `A[i, j]`.
type Reference struct {
	Pos
	Base  *Variable
	Index *Vector
}

// Variable is a named reference to a value.
type Variable struct {
	Pos
	Name string
}

// Integer is an integer literal.
type Integer struct {
	Pos
	Value int64
}

// Float is a floating point literal.
type Float struct {
	Pos
	Value float64
}

// String is a string literal, without quotes.
type String struct {
	Pos
	Value string
}

// Range is the range of a for-loop, `start:end`. The end is exclusive.
type Range struct {
	Pos
	Start Node
	End   Node
}

// --- Operators -------------------------------------------------------------

// Transpose is the operator symbol for matrix transposition.
const Transpose = "'"

var compoundOps = map[string]string{
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
}

// CompoundOp returns the binary operator implied by a compound assignment
// operator, e.g. "+" for "+=". It returns false for "=" and unknown operators.
func CompoundOp(op string) (string, bool) {
	bin, ok := compoundOps[op]
	return bin, ok
}

// IsRelational is a predicate: is op a comparison operator?
func IsRelational(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

// IsElementwise is a predicate: is op one of the dotted matrix operators?
func IsElementwise(op string) bool {
	switch op {
	case ".+", ".-", ".*", "./":
		return true
	}
	return false
}

// ElementOp returns the scalar operator of an elementwise matrix operator,
// e.g. "*" for ".*".
func ElementOp(op string) string {
	if IsElementwise(op) {
		return op[1:]
	}
	return op
}

// --- Traversal -------------------------------------------------------------

// Children returns the direct sub-nodes of n, in source order.
func Children(n Node) []Node {
	var ch []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				ch = append(ch, c)
			}
		}
	}
	switch x := n.(type) {
	case *Program:
		add(x.Instructions...)
	case *Block:
		add(x.Instructions...)
	case *FunctionalInstruction:
		add(x.Args...)
	case *WhileInstruction:
		add(x.Condition, x.Body)
	case *ForLoopInstruction:
		add(x.Var, x.Range, x.Body)
	case *FlowControlInstruction:
		add(x.Operand)
	case *Ifstatement:
		add(x.Condition, x.Then, x.Else)
	case *Assignment:
		add(x.Target, x.Expr)
	case *BinaryOperation:
		add(x.Left, x.Right)
	case *UnaryOperation:
		add(x.Operand)
	case *Vector:
		add(x.Elements...)
	case *Reference:
		add(x.Base, x.Index)
	case *Range:
		add(x.Start, x.End)
	case *Variable, *Integer, *Float, *String:
	default:
		tracer().Errorf("unknown AST node type %T", n)
	}
	return ch
}

// isNil checks for nil interfaces as well as typed nil pointers, which
// appear e.g. for a for-loop without a range.
func isNil(n Node) bool {
	switch x := n.(type) {
	case nil:
		return true
	case *Variable:
		return x == nil
	case *Range:
		return x == nil
	case *Vector:
		return x == nil
	}
	return false
}

// Walk traverses an AST in depth-first order. It calls visit for each node;
// if visit returns false, the children of that node are skipped.
func Walk(n Node, visit func(Node) bool) {
	if isNil(n) || !visit(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, visit)
	}
}
