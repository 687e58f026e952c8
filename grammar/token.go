package grammar

import "fmt"

// TokenKind is the category of a token.
type TokenKind int

// Token kinds. Keywords are identifiers reclassified by a lookup in a table
// of reserved words.
const (
	EOF TokenKind = iota
	Illegal

	Int    // 42, -7
	Float  // 3.14, .5, 1e-3
	String // "text"
	Ident  // A

	Plus      // +
	Minus     // -
	Times     // *
	Divide    // /
	DotPlus   // .+
	DotMinus  // .-
	DotTimes  // .*
	DotDivide // ./

	Eq        // ==
	NotEq     // !=
	Less      // <
	LessEq    // <=
	Greater   // >
	GreaterEq // >=

	Assign    // =
	AddAssign // +=
	SubAssign // -=
	MulAssign // *=
	DivAssign // /=

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Semicolon // ;
	Comma     // ,
	Colon     // :
	Tick      // ' (transpose)

	If
	Else
	For
	While
	Print
	Break
	Continue
	Return
	Eye
	Zeros
	Ones
)

// Token is a lexical unit of source text.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Line)
}

var kindNames = map[TokenKind]string{
	EOF: "EOF", Illegal: "ILLEGAL",
	Int: "INTEGER", Float: "FLOAT", String: "STRING", Ident: "ID",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if lexeme, ok := symbolLexemes[k]; ok {
		return lexeme
	}
	for kw, kind := range keywords {
		if kind == k {
			return kw
		}
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// operators and punctuation, by kind
var symbolLexemes = map[TokenKind]string{
	Plus: "+", Minus: "-", Times: "*", Divide: "/",
	DotPlus: ".+", DotMinus: ".-", DotTimes: ".*", DotDivide: "./",
	Eq: "==", NotEq: "!=", Less: "<", LessEq: "<=", Greater: ">", GreaterEq: ">=",
	Assign: "=", AddAssign: "+=", SubAssign: "-=", MulAssign: "*=", DivAssign: "/=",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Semicolon: ";", Comma: ",", Colon: ":", Tick: "'",
}

// reserved words. Matching is exact and case-sensitive.
var keywords = map[string]TokenKind{
	"if":       If,
	"else":     Else,
	"for":      For,
	"while":    While,
	"print":    Print,
	"break":    Break,
	"continue": Continue,
	"return":   Return,
	"eye":      Eye,
	"zeros":    Zeros,
	"ones":     Ones,
}
