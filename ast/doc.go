/*
Package ast defines the abstract syntax tree of mlang programs.

The set of node types is closed: every node of a tree is one of the
pointer types declared in this package. Clients visiting a tree are
expected to switch over these types exhaustively.

Nodes are created once by the parser and never modified afterwards. Every
node remembers the source line of its first token, for error messages.

Vector literals carry a shape, i.e. a tuple of element counts per nesting
level. A vector is well-formed only if it is rectangular; see Vector.Shape.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mlang.ast'.
func tracer() tracing.Trace {
	return tracing.Select("mlang.ast")
}
