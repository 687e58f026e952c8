/*
Package semantic implements static checks for mlang programs.

The analyzer walks the AST once, maintaining a stack of scopes in parallel
to the memory frames the interpreter will use at runtime. It infers for every
expression either a scalar type or a matrix type with a shape, and reports
undefined variables, type and shape mismatches, bad arguments of built-ins,
bad indices and flow control statements outside of loops.

Diagnostics are accumulated: the analyzer never stops at the first problem,
so a single run reports every defect of a program. Programs with diagnostics
must not be executed.

Variables may change their type by assignment. The language has no
declarations, so the type of a variable is the type of the value most
recently assigned to it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package semantic

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mlang.semantic'.
func tracer() tracing.Trace {
	return tracing.Select("mlang.semantic")
}
