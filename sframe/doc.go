/*
Package sframe implements scopes and memory frames.

Scopes of the semantic analyzer and memory frames of the interpreter follow
the same discipline: a frame is created when a block or a loop body is
entered and destroyed when it is left. At any time only one path of live
frames exists, from the global frame to the innermost one. This package
implements this path as a Stack of Frames, generic over the kind of
binding stored.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sframe

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mlang.runtime'
func tracer() tracing.Trace {
	return tracing.Select("mlang.runtime")
}
