package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/mlang"
)

// Dump writes an indented tree representation of an AST to w. Every level
// of nesting is marked by a "|  " prefix:
//
//     =
//     |  A
//     |  ZEROS
//     |  |  3
//
func Dump(w io.Writer, n Node) error {
	p := &printer{w: w}
	p.print(n, 0)
	return p.err
}

// DumpColored is like Dump, but highlights keywords and operators with
// terminal colors.
func DumpColored(w io.Writer, n Node) error {
	p := &printer{w: w, colors: text.Colors{text.FgCyan, text.Bold}}
	p.print(n, 0)
	return p.err
}

// DumpString returns the output of Dump as a string.
func DumpString(n Node) string {
	var b strings.Builder
	Dump(&b, n)
	return b.String()
}

type printer struct {
	w      io.Writer
	colors text.Colors
	err    error
}

func (p *printer) line(indent int, s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, strings.Repeat("|  ", indent)+s+"\n")
}

// keyword writes a tree label which is not a user-provided name or literal.
func (p *printer) keyword(indent int, s string) {
	if p.colors != nil {
		s = p.colors.Sprint(s)
	}
	p.line(indent, s)
}

func (p *printer) all(nodes []Node, indent int) {
	for _, n := range nodes {
		p.print(n, indent)
	}
}

func (p *printer) print(n Node, indent int) {
	switch x := n.(type) {
	case *Program:
		p.all(x.Instructions, indent)
	case *Block:
		p.keyword(indent, "BLOCK")
		p.all(x.Instructions, indent+1)
	case *FunctionalInstruction:
		p.keyword(indent, strings.ToUpper(x.Name))
		p.all(x.Args, indent+1)
	case *WhileInstruction:
		p.keyword(indent, "WHILE")
		p.print(x.Condition, indent+1)
		p.print(x.Body, indent+1)
	case *ForLoopInstruction:
		p.keyword(indent, "FOR")
		p.print(x.Var, indent+1)
		p.print(x.Range, indent+1)
		p.print(x.Body, indent+1)
	case *FlowControlInstruction:
		p.keyword(indent, strings.ToUpper(x.Kind.String()))
		if x.Operand != nil {
			p.print(x.Operand, indent+1)
		}
	case *Ifstatement:
		p.keyword(indent, "IF")
		p.print(x.Condition, indent+1)
		p.keyword(indent, "THEN")
		p.print(x.Then, indent+1)
		if x.Else != nil {
			p.keyword(indent, "ELSE")
			p.print(x.Else, indent+1)
		}
	case *Assignment:
		p.keyword(indent, x.Op)
		p.print(x.Target, indent+1)
		p.print(x.Expr, indent+1)
	case *BinaryOperation:
		p.keyword(indent, x.Op)
		p.print(x.Left, indent+1)
		p.print(x.Right, indent+1)
	case *UnaryOperation:
		if x.Op == Transpose {
			p.keyword(indent, "TRANSPOSE")
		} else {
			p.keyword(indent, "MINUS")
		}
		p.print(x.Operand, indent+1)
	case *Vector:
		p.keyword(indent, "VECTOR")
		p.all(x.Elements, indent+1)
	case *Reference:
		p.keyword(indent, "REF")
		p.print(x.Base, indent+1)
		p.all(x.Index.Elements, indent+1)
	case *Range:
		p.keyword(indent, "RANGE")
		p.print(x.Start, indent+1)
		p.print(x.End, indent+1)
	case *Variable:
		p.line(indent, x.Name)
	case *Integer:
		p.line(indent, strconv.FormatInt(x.Value, 10))
	case *Float:
		p.line(indent, mlang.Float(x.Value).String())
	case *String:
		p.line(indent, strconv.Quote(x.Value))
	default:
		p.line(indent, fmt.Sprintf("<%T>", n))
	}
}
