/*
Package evaluator implements a tree-walking interpreter for mlang.

The interpreter holds a stack of memory frames, using the same scoping
discipline as the semantic analyzer: blocks push a frame, and every iteration
of a loop runs in a frame of its own. Frames are popped on every exit path,
including runtime errors.

Loop control is expressed with signals. Every statement returns a Signal,
which is either normal completion, break, continue or return. Loops consume
break and continue, return terminates the program and yields its value.

Runtime errors abort the evaluation immediately. They report the offending
operation and source line.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package evaluator

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mlang.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("mlang.runtime")
}
