// Package kerndir encapsulates all path knowledge for the kernagent user
// configuration directory. It provides a Dir value object rooted at
// <config-home>/kernagent and the lookup rules that pick the config file.
package kerndir

import (
	"os"
	"path/filepath"
)

const (
	// ConfigEnvVar overrides the config file path entirely.
	ConfigEnvVar = "KERNAGENT_CONFIG"

	// XDGConfigHomeEnvVar selects the base directory for the default config
	// file location.
	XDGConfigHomeEnvVar = "XDG_CONFIG_HOME"

	appName        = "kernagent"
	configFileName = "config.env"
)

// Dir is a value object that resolves paths within the kernagent config
// directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. No I/O is performed; use
// EnsureStructure to create the directory.
func New(root string) Dir {
	return Dir{root: root}
}

// Default returns the Dir under the config home derived from env.
func Default(env map[string]string) Dir {
	return New(filepath.Join(Home(env), appName))
}

// Root returns the path to the kernagent config directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the dotenv config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, configFileName) }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}

// Home returns the config home: XDG_CONFIG_HOME when set, otherwise
// <home>/.config. A set but empty XDG_CONFIG_HOME yields the empty string,
// which makes the default config path relative. HOME is taken from env first
// and then from the OS.
func Home(env map[string]string) string {
	if xdg, ok := env[XDGConfigHomeEnvVar]; ok {
		return xdg
	}

	home := env["HOME"]
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}

	return filepath.Join(home, ".config")
}

// Override returns KERNAGENT_CONFIG and whether it is set. A set but empty
// value names no file.
func Override(env map[string]string) (string, bool) {
	p, ok := env[ConfigEnvVar]
	return p, ok
}

// ConfigPath returns the config file to use. Priority:
// 1. KERNAGENT_CONFIG (when set, even if empty)
// 2. <config-home>/kernagent/config.env
func ConfigPath(env map[string]string) string {
	if p, ok := Override(env); ok {
		return p
	}

	return Default(env).ConfigPath()
}

// FileExists reports whether path names an existing non-directory entry.
// The empty path never exists.
func FileExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
