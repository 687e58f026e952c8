package grammar

/*
BSD License

Copyright (c) 2019–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// ErrLex is the error class of all lexical errors.
var ErrLex = errors.New("lexical error")

// LexError is returned if no token rule matches the input at some position.
type LexError struct {
	Char rune // the offending character
	Line int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: illegal character %q", e.Line, e.Char)
}

// Unwrap makes LexError match ErrLex.
func (e *LexError) Unwrap() error {
	return ErrLex
}

// The lexer is a DFA compiled once from the token rules below.
var lexer *lexmachine.Lexer
var lexerErr error
var initOnce sync.Once // monitors one-time initialization

func initLexer() {
	initOnce.Do(func() {
		lexer, lexerErr = newLexer()
		if lexerErr != nil {
			tracer().Errorf("cannot compile lexer: %v", lexerErr)
		}
	})
}

// newLexer creates a lexmachine lexer for mlang. lexmachine prefers the
// longest match; between matches of equal length the rule added first wins.
func newLexer() (*lexmachine.Lexer, error) {
	lx := lexmachine.NewLexer()
	lx.Add([]byte(`#[^\n]*`), skip)         // skip comments
	lx.Add([]byte(`( |\t|\n|\r)+`), skip)   // skip whitespace
	lx.Add([]byte(`"[^"\n]*"`), makeString) // no escapes
	lx.Add([]byte(`[\+\-]?(\.[0-9]+|[0-9]+\.[0-9]*)((e|E)[\+\-]?[0-9]+)?`), makeToken(Float))
	lx.Add([]byte(`[\+\-]?[0-9]+`), makeToken(Int))
	lx.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|_|[0-9])*`), makeIdent)
	for kind, lexeme := range symbolLexemes {
		lx.Add([]byte(escape(lexeme)), makeToken(kind))
	}
	if err := lx.Compile(); err != nil {
		return nil, err
	}
	return lx, nil
}

// escape quotes every character of a literal lexeme for the regex compiler.
func escape(lexeme string) string {
	var b strings.Builder
	for _, r := range lexeme {
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	return b.String()
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(kind TokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return Token{Kind: kind, Lexeme: string(m.Bytes), Line: m.StartLine}, nil
	}
}

func makeString(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	lexeme := string(m.Bytes)
	return Token{Kind: String, Lexeme: lexeme[1 : len(lexeme)-1], Line: m.StartLine}, nil
}

func makeIdent(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	lexeme := string(m.Bytes)
	if kw, ok := keywords[lexeme]; ok {
		return Token{Kind: kw, Lexeme: lexeme, Line: m.StartLine}, nil
	}
	return Token{Kind: Ident, Lexeme: lexeme, Line: m.StartLine}, nil
}

// --- Token stream ----------------------------------------------------------

// TokenStream delivers the tokens of a source text one at a time. It is
// lazy, finite and cannot be restarted. After the last token every call to
// Next returns an EOF token; after a lexical error every call to Next
// returns that error.
type TokenStream struct {
	scanner *lexmachine.Scanner
	line    int   // line of the most recent token
	err     error // sticky lexical error
	done    bool
}

// Tokenize creates a token stream for a source text.
func Tokenize(src string) (*TokenStream, error) {
	initLexer()
	if lexerErr != nil {
		return nil, lexerErr
	}
	scanner, err := lexer.Scanner([]byte(src))
	if err != nil {
		return nil, err
	}
	return &TokenStream{scanner: scanner, line: 1}, nil
}

// Next returns the next token, or an EOF token if the input is exhausted.
// If the input at the current position cannot be matched, a *LexError is
// returned.
func (ts *TokenStream) Next() (Token, error) {
	if ts.err != nil {
		return Token{Kind: Illegal, Line: ts.line}, ts.err
	}
	if ts.done {
		return Token{Kind: EOF, Line: ts.line}, nil
	}
	tok, err, eos := ts.scanner.Next()
	if eos {
		ts.done = true
		return Token{Kind: EOF, Line: ts.line}, nil
	}
	if err != nil {
		ts.err = lexError(err, ts.line)
		tracer().Debugf("%v", ts.err)
		return Token{Kind: Illegal, Line: ts.line}, ts.err
	}
	t := tok.(Token)
	ts.line = t.Line
	return t, nil
}

func lexError(err error, line int) error {
	var ui *machines.UnconsumedInput
	if !errors.As(err, &ui) {
		return fmt.Errorf("%w: %v", ErrLex, err)
	}
	r := utf8.RuneError
	if ui.StartTC < len(ui.Text) {
		r, _ = utf8.DecodeRune(ui.Text[ui.StartTC:])
	}
	return &LexError{Char: r, Line: ui.StartLine}
}

// Tokens is a convenience function which collects all tokens of a source
// text, excluding the final EOF token.
func Tokens(src string) ([]Token, error) {
	ts, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	var toks []Token
	for {
		tok, err := ts.Next()
		if err != nil {
			return toks, err
		}
		if tok.Kind == EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
