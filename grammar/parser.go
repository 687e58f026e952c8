package grammar

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/npillmayer/mlang/ast"
)

// ErrSyntax is the error class of all syntax errors.
var ErrSyntax = errors.New("syntax error")

// SyntaxError is returned if the parser encounters an unexpected token or
// runs out of input.
type SyntaxError struct {
	Line     int
	Lexeme   string // offending lexeme, empty at end of input
	AtEOF    bool   // input ended prematurely
	Expected string // what the parser was looking for, may be empty
}

func (e *SyntaxError) Error() string {
	var msg string
	if e.AtEOF {
		msg = fmt.Sprintf("line %d: syntax error: unexpected end of input", e.Line)
	} else {
		msg = fmt.Sprintf("line %d: syntax error at %q", e.Line, e.Lexeme)
	}
	if e.Expected != "" {
		msg += ", expecting " + e.Expected
	}
	return msg
}

// Unwrap makes SyntaxError match ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Parse parses a source text into a program AST. It returns a *LexError or
// a *SyntaxError if src is not a valid program.
func Parse(src string) (*ast.Program, error) {
	ts, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(ts)
}

// ParseTokens parses a program from a token stream.
func ParseTokens(ts *TokenStream) (*ast.Program, error) {
	p := &parser{tokens: ts}
	p.advance()
	prog, err := p.program()
	if err != nil {
		tracer().Debugf("parse failed: %v", err)
		return nil, err
	}
	return prog, nil
}

type parser struct {
	tokens  *TokenStream
	tok     Token   // lookahead
	pending []Token // tokens pushed back, top of stack last
	lexErr  error
}

func (p *parser) advance() {
	if n := len(p.pending); n > 0 {
		p.tok = p.pending[n-1]
		p.pending = p.pending[:n-1]
		return
	}
	tok, err := p.tokens.Next()
	if err != nil && p.lexErr == nil {
		p.lexErr = err
	}
	p.tok = tok
}

// unexpected creates the error for the current lookahead. A lexical error
// met while reading the lookahead takes precedence.
func (p *parser) unexpected(expected string) error {
	if p.lexErr != nil {
		return p.lexErr
	}
	if p.tok.Kind == EOF {
		return &SyntaxError{Line: p.tok.Line, AtEOF: true, Expected: expected}
	}
	return &SyntaxError{Line: p.tok.Line, Lexeme: p.tok.Lexeme, Expected: expected}
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if p.tok.Kind != kind {
		return p.tok, p.unexpected(strconv.Quote(kind.String()))
	}
	tok := p.tok
	p.advance()
	return tok, nil
}

// splitSignedLiteral handles literals with a sign in infix position, as in
// `x -1`. The lexer treats the sign as part of the literal; here it is
// split off as a binary operator.
func (p *parser) splitSignedLiteral() {
	if p.tok.Kind != Int && p.tok.Kind != Float || len(p.tok.Lexeme) < 2 {
		return
	}
	var op TokenKind
	switch p.tok.Lexeme[0] {
	case '+':
		op = Plus
	case '-':
		op = Minus
	default:
		return
	}
	lit := p.tok
	lit.Lexeme = lit.Lexeme[1:]
	p.pending = append(p.pending, lit)
	p.tok = Token{Kind: op, Lexeme: p.tok.Lexeme[:1], Line: p.tok.Line}
}

// --- Statements ------------------------------------------------------------

// program := statement*
func (p *parser) program() (*ast.Program, error) {
	prog := &ast.Program{Pos: ast.At(p.tok.Line)}
	for p.tok.Kind != EOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Instructions = append(prog.Instructions, stmt)
	}
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	return prog, nil
}

func (p *parser) statement() (ast.Node, error) {
	switch p.tok.Kind {
	case LBrace:
		return p.block()
	case If:
		return p.ifStatement()
	case While:
		return p.whileLoop()
	case For:
		return p.forLoop()
	case Print:
		return p.terminated(p.print)
	case Break, Continue, Return:
		return p.terminated(p.flowControl)
	case Ident:
		return p.terminated(p.assignment)
	}
	return nil, p.unexpected("statement")
}

// terminated parses a simple statement followed by a semicolon.
func (p *parser) terminated(simple func() (ast.Node, error)) (ast.Node, error) {
	stmt, err := simple()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(Semicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// block := '{' statement* '}'
func (p *parser) block() (ast.Node, error) {
	open, _ := p.expect(LBrace)
	block := &ast.Block{Pos: ast.At(open.Line)}
	for p.tok.Kind != RBrace {
		if p.tok.Kind == EOF {
			return nil, p.unexpected(`"}"`)
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		block.Instructions = append(block.Instructions, stmt)
	}
	p.advance()
	return block, nil
}

// condition := '(' expr ')'
func (p *parser) condition() (ast.Node, error) {
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(RParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// if := 'if' '(' expr ')' statement ['else' statement]
func (p *parser) ifStatement() (ast.Node, error) {
	kw, _ := p.expect(If)
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Ifstatement{Pos: ast.At(kw.Line), Condition: cond, Then: then}
	// the innermost open if takes the else
	if p.tok.Kind == Else {
		p.advance()
		if stmt.Else, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// while := 'while' '(' expr ')' statement
func (p *parser) whileLoop() (ast.Node, error) {
	kw, _ := p.expect(While)
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileInstruction{Pos: ast.At(kw.Line), Condition: cond, Body: body}, nil
}

// for := 'for' ID '=' expr ':' expr statement
func (p *parser) forLoop() (ast.Node, error) {
	kw, _ := p.expect(For)
	id, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(Assign); err != nil {
		return nil, err
	}
	start, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(Colon); err != nil {
		return nil, err
	}
	end, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.ForLoopInstruction{
		Pos:   ast.At(kw.Line),
		Var:   &ast.Variable{Pos: ast.At(id.Line), Name: id.Lexeme},
		Range: &ast.Range{Pos: ast.At(start.Line()), Start: start, End: end},
		Body:  body,
	}, nil
}

// print := 'print' expr {',' expr}
func (p *parser) print() (ast.Node, error) {
	kw, _ := p.expect(Print)
	args, err := p.terms()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionalInstruction{Pos: ast.At(kw.Line), Name: kw.Lexeme, Args: args}, nil
}

// flow := 'break' | 'continue' | 'return' [expr]
func (p *parser) flowControl() (ast.Node, error) {
	kw := p.tok
	p.advance()
	stmt := &ast.FlowControlInstruction{Pos: ast.At(kw.Line)}
	switch kw.Kind {
	case Break:
		stmt.Kind = ast.Break
	case Continue:
		stmt.Kind = ast.Continue
	case Return:
		stmt.Kind = ast.Return
		if p.tok.Kind != Semicolon {
			operand, err := p.expr()
			if err != nil {
				return nil, err
			}
			stmt.Operand = operand
		}
	}
	return stmt, nil
}

var assignmentOps = map[TokenKind]bool{
	Assign: true, AddAssign: true, SubAssign: true, MulAssign: true, DivAssign: true,
}

// assignment := (ID | ID '[' terms ']') assignop expr
func (p *parser) assignment() (ast.Node, error) {
	target, err := p.variableOrReference()
	if err != nil {
		return nil, err
	}
	if !assignmentOps[p.tok.Kind] {
		return nil, p.unexpected("assignment operator")
	}
	op := p.tok
	p.advance()
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	tracer().P("op", op.Lexeme).Debugf("assignment in line %d", op.Line)
	return &ast.Assignment{Pos: ast.At(target.Line()), Target: target, Op: op.Lexeme, Expr: expr}, nil
}

// --- Expressions -----------------------------------------------------------

func (p *parser) expr() (ast.Node, error) {
	return p.expression(RelationalLevel)
}

// expression parses a sequence of binary operations with operators of at
// least precedence level minLevel.
func (p *parser) expression(minLevel int) (ast.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		p.splitSignedLiteral()
		prec, ok := PrecedenceOf(p.tok.Kind)
		if !ok || prec.Level < minLevel {
			return left, nil
		}
		op := p.tok
		p.advance()
		next := prec.Level + 1
		if prec.Assoc == RightAssoc {
			next = prec.Level
		}
		right, err := p.expression(next)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Pos: ast.At(left.Line()), Op: op.Lexeme, Left: left, Right: right}
	}
}

// unary := '-' unary | postfix
func (p *parser) unary() (ast.Node, error) {
	if p.tok.Kind == Minus {
		minus := p.tok
		p.advance()
		operand, err := p.expression(UnaryLevel)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOperation{Pos: ast.At(minus.Line), Op: "-", Operand: operand}, nil
	}
	return p.postfix()
}

// postfix := primary {'''}
func (p *parser) postfix() (ast.Node, error) {
	operand, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == Tick {
		operand = &ast.UnaryOperation{Pos: ast.At(operand.Line()), Op: ast.Transpose, Operand: operand}
		p.advance()
	}
	return operand, nil
}

func (p *parser) primary() (ast.Node, error) {
	tok := p.tok
	switch tok.Kind {
	case Int:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Line: tok.Line, Lexeme: tok.Lexeme, Expected: "integer in range"}
		}
		p.advance()
		return &ast.Integer{Pos: ast.At(tok.Line), Value: v}, nil
	case Float:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &SyntaxError{Line: tok.Line, Lexeme: tok.Lexeme, Expected: "float in range"}
		}
		p.advance()
		return &ast.Float{Pos: ast.At(tok.Line), Value: v}, nil
	case String:
		p.advance()
		return &ast.String{Pos: ast.At(tok.Line), Value: tok.Lexeme}, nil
	case Ident:
		return p.variableOrReference()
	case LBracket:
		return p.vector()
	case LParen:
		p.advance()
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(RParen); err != nil {
			return nil, err
		}
		return e, nil
	case Eye, Zeros, Ones:
		return p.constructor()
	}
	return nil, p.unexpected("expression")
}

// variableOrReference := ID ['[' terms ']']
func (p *parser) variableOrReference() (ast.Node, error) {
	id, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	v := &ast.Variable{Pos: ast.At(id.Line), Name: id.Lexeme}
	if p.tok.Kind != LBracket {
		return v, nil
	}
	index, err := p.vector()
	if err != nil {
		return nil, err
	}
	return &ast.Reference{Pos: ast.At(id.Line), Base: v, Index: index}, nil
}

// vector := '[' [terms] ']'
func (p *parser) vector() (*ast.Vector, error) {
	open, err := p.expect(LBracket)
	if err != nil {
		return nil, err
	}
	v := &ast.Vector{Pos: ast.At(open.Line)}
	if p.tok.Kind != RBracket {
		if v.Elements, err = p.terms(); err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(RBracket); err != nil {
		return nil, err
	}
	return v, nil
}

// constructor := ('eye'|'zeros'|'ones') '(' terms ')'
//
// The number of arguments is checked by semantic analysis.
func (p *parser) constructor() (ast.Node, error) {
	kw := p.tok
	p.advance()
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	args, err := p.terms()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(RParen); err != nil {
		return nil, err
	}
	return &ast.FunctionalInstruction{Pos: ast.At(kw.Line), Name: kw.Lexeme, Args: args}, nil
}

// terms := expr {',' expr}
func (p *parser) terms() ([]ast.Node, error) {
	var list []ast.Node
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if p.tok.Kind != Comma {
			return list, nil
		}
		p.advance()
	}
}
