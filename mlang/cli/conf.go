package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/mattn/go-isatty"
	"github.com/npillmayer/mlang"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// defaults are the lowest configuration layer.
var defaults = map[string]interface{}{
	"color":         "auto",
	"repl.editmode": "emacs",
	"repl.prompt":   "mlang> ",
}

// loadConfig is a callback function used by cobra's initialization mechanism.
// Unfortunately we're not allowed a return value.
func loadConfig() {
	k := koanf.New(".") // '.' is hierarchy delimiter
	k.Load(confmap.Provider(defaults, "."), nil)
	// We locate mlang configuration with an application-key of 'MLANG' and
	// use NestedText-format (nt) for config-files
	konf := koanfadapter.New(k, "MLANG", []string{"nt"})
	konf.InitDefaults()
	if err := mergeConfigFile(konf); err != nil {
		tracing.Errorf(err.Error())
		mlang.Exit(1)
	}
	if err := mergeEnvironment(konf); err != nil {
		tracing.Errorf(err.Error())
		mlang.Exit(1)
	}
	if err := mergeFlags(konf); err != nil {
		tracing.Errorf(err.Error())
		mlang.Exit(1)
	}
	if err := configureTracing(konf); err != nil {
		tracing.Errorf(err.Error())
		mlang.Exit(1)
	}
	mlang.Configuration = k // push the configuration to app-global scope
	configureColors()
}

// mergeConfigFile loads a YAML file given with --config.
func mergeConfigFile(konf *koanfadapter.KConf) error {
	path, err := rootCmd.PersistentFlags().GetString("config")
	if err != nil || path == "" {
		return err
	}
	tracing.Infof("loading configuration from %s", path)
	return konf.Koanf().Load(file.Provider(path), yaml.Parser())
}

// mergeEnvironment loads variables MLANG_*. MLANG_REPL_PROMPT sets
// 'repl.prompt'.
func mergeEnvironment(konf *koanfadapter.KConf) error {
	return konf.Koanf().Load(env.Provider("MLANG_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "MLANG_")), "_", ".")
	}), nil)
}

func mergeFlags(konf *koanfadapter.KConf) error {
	flags := rootCmd.PersistentFlags()
	err := konf.Koanf().Load(posflag.Provider(flags, ".", konf.Koanf()), nil)
	if err != nil {
		return err
	}
	if logname := konf.GetString("logfile"); logname != "" && logname != "stderr" {
		if strings.Contains(logname, ":/") {
			konf.Set("tracing.destination", logname)
		} else {
			konf.Set("tracing.destination", "file://"+logname)
		}
	}
	return err
}

func configureTracing(konf *koanfadapter.KConf) error {
	if a := konf.GetString("tracing.adapter"); a != "" && a != "go" {
		tracing.Errorf("tracing adapter type '%s' currently not supported", a)
	}
	konf.Set("tracing.adapter", "go") // use Go builtin logging facilities
	tracing.Infof("searching for trace redirection")
	paths := locatePaths()
	if dest := konf.GetString("tracing.destination"); dest != "" {
		if !strings.Contains(dest, ":") && paths.LogDir() != "" {
			dest = "file://" + filepath.Join(paths.LogDir(), dest)
			konf.Set("tracing.destination", dest)
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Infof("mlang configured, color=%s", konf.GetString("color"))
	return nil
}

func locatePaths() AppPaths {
	paths, err := DefaultAppPaths("MLANG")
	if err != nil {
		tracing.Errorf("cannot configure paths: %v", err)
	}
	return paths
}

// colorsWanted decides from configuration key 'color' whether to use ANSI
// colors. For 'auto' stdout has to be a terminal.
func colorsWanted() bool {
	switch mlang.ConfigString("color", "auto") {
	case "always":
		return true
	case "never":
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func configureColors() {
	if colorsWanted() {
		text.EnableColors()
	} else {
		text.DisableColors()
	}
}
