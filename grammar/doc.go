/*
Package grammar implements the lexer and the parser for mlang.

The lexer is generated by lexmachine from a small set of regular
expressions. Whitespace, newlines and comments (from '#' to the end of the
line) are dropped. Numeric literals may carry a sign, which is part of the
literal. Reserved words are scanned as identifiers and then reclassified.

The parser is an operator precedence parser driven by a single table of
precedence levels and associativities:

	relational      ==  !=  <  <=  >  >=    non-associative
	additive        +  -                    left
	matrix additive .+  .-                  left
	multiplicative  *  /                    left
	matrix mult.    .*  ./                  left
	unary minus     -                       prefix
	transpose       '                       postfix

The same table resolves the dangling else: an if without an else-part has
lower precedence than else, therefore an else always binds to the nearest
unmatched if.

Parsing stops at the first error. There is no error recovery and no partial
AST is returned.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mlang.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("mlang.grammar")
}
