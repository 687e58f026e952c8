// Package mlang is a toolchain for a small matrix scripting language.
//
// Programs are lexed, parsed into an AST, checked by a semantic analyzer
// and finally executed by a tree-walking interpreter. This package holds the
// pieces all of these phases share: the runtime value model, the shape algebra
// of matrices and application-global configuration.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package mlang

import (
	"context"
	"io"
	"os"

	"github.com/knadh/koanf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'mlang'.
func tracer() tracing.Trace {
	return tracing.Select("mlang")
}

// Configuration holds global configuration values. We use koanf.
var Configuration *koanf.Koanf

// Tracefile is the file we write our log output, if not nil.
var Tracefile io.WriteCloser

// SignalContext is a global context for terminating the application by an
// interrupt signal.
var SignalContext context.Context = context.Background()

// Exit exits the application. It gracefully shuts down all resources.
func Exit(errcode int) {
	if Tracefile != nil {
		Tracefile.Close()
	}
	os.Exit(errcode)
}

// ConfigString returns a configuration value as a string, or dflt if no
// configuration is present or the key is unset.
func ConfigString(key string, dflt string) string {
	if Configuration == nil || !Configuration.Exists(key) {
		return dflt
	}
	return Configuration.String(key)
}
