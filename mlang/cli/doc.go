package cli

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'mlang.cli'
func tracer() tracing.Trace {
	return tracing.Select("mlang.cli")
}
