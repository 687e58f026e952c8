package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/ast"
	"github.com/npillmayer/mlang/evaluator"
	"github.com/npillmayer/mlang/grammar"
	"github.com/npillmayer/mlang/semantic"
)

// phase selects how far a source text travels through the toolchain.
type phase int8

const (
	phaseAST   phase = iota // parse and dump the tree
	phaseCheck              // parse and analyze
	phaseRun                // parse, analyze and execute
)

// session connects parser, analyzer and interpreter. Analyzer and interpreter
// keep their global scopes for the lifetime of a session, therefore a REPL
// can feed one program fragment after another to the same session.
type session struct {
	analyzer *semantic.Analyzer
	intp     *evaluator.Interpreter
	out      io.Writer
	errout   io.Writer
	colored  bool // highlight tree dumps
}

func newSession(out, errout io.Writer) *session {
	return &session{
		analyzer: semantic.NewAnalyzer(),
		intp:     evaluator.NewInterpreter(out),
		out:      out,
		errout:   errout,
		colored:  colorsWanted(),
	}
}

// process runs a source text through the toolchain, up to phase ph. Errors
// are reported to the session's error output and returned.
func (s *session) process(src string, ph phase) (mlang.Value, error) {
	prog, err := grammar.Parse(src)
	if err != nil {
		s.report(err)
		return nil, err
	}
	if ph == phaseAST {
		if s.colored {
			err = ast.DumpColored(s.out, prog)
		} else {
			err = ast.Dump(s.out, prog)
		}
		return nil, err
	}
	if diags := s.analyzer.Analyze(prog); len(diags) > 0 {
		for _, d := range diags {
			s.report(d)
		}
		tracer().Infof("program not executed: %d problem(s)", len(diags))
		return nil, diags
	}
	if ph == phaseCheck {
		return nil, nil
	}
	v, err := s.intp.Run(prog)
	if err != nil {
		s.report(err)
	}
	return v, err
}

func (s *session) report(err error) {
	label := "error"
	switch {
	case errors.Is(err, grammar.ErrLex), errors.Is(err, grammar.ErrSyntax):
		label = "syntax error"
	case errors.Is(err, semantic.ErrSemantic):
		label = "semantic error"
	case errors.Is(err, evaluator.ErrRuntime):
		label = "runtime error"
	}
	fmt.Fprintf(s.errout, "%s %v\n", text.Colors{text.FgRed, text.Bold}.Sprint(label+":"), err)
}

// exitCode maps the result of processing a program to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, grammar.ErrLex), errors.Is(err, grammar.ErrSyntax):
		return 2
	case errors.Is(err, semantic.ErrSemantic):
		return 3
	}
	return 1
}
