package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// AppPaths is an interface to determine application specific paths for
// configuration, logging/tracing and the history of the REPL.
type AppPaths interface {
	ConfigDir() string
	LogDir() string
	HistoryFile() string
}

// DefaultAppPaths returns an AppPaths instance with platform-dependent defaults
// set, given appTag. appTag is a string specific to a client's application to identify it.
func DefaultAppPaths(appTag string) (AppPaths, error) {
	a := appPaths{tag: appTag}
	home, err := os.UserHomeDir()
	if err == nil {
		a.home = home
	}
	return a, err
}

type appPaths struct {
	tag  string
	home string
}

var _ AppPaths = appPaths{}

// HistoryFile is located in the user's cache directory. If there is none,
// the history goes to the temp directory.
func (a appPaths) HistoryFile() string {
	name := strings.ToLower(a.tag) + "-repl-history"
	c, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), name)
	}
	dir := filepath.Join(c, strings.ToLower(a.tag))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return filepath.Join(os.TempDir(), name)
	}
	return filepath.Join(dir, name)
}
