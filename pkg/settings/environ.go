package settings

import (
	"maps"
	"os"
	"strings"
)

// Environ is a snapshot of environment variables keyed by name.
type Environ map[string]string

// FromProcess snapshots the current process environment.
func FromProcess() Environ {
	return Parse(os.Environ())
}

// Parse builds an Environ from KEY=VALUE pairs as returned by os.Environ.
// Entries without "=" are skipped. Later duplicates win.
func Parse(pairs []string) Environ {
	env := make(Environ, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}

	return env
}

// Lookup returns the value of key and whether it is set.
func (e Environ) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Get returns the value of key, or def when key is unset. A key that is set
// to the empty string yields the empty string.
func (e Environ) Get(key, def string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return def
}

// Beneath returns a copy of e extended with every key of lower that e does
// not already define. Values in e are never replaced.
func (e Environ) Beneath(lower Environ) Environ {
	out := maps.Clone(e)
	if out == nil {
		out = make(Environ, len(lower))
	}
	for k, v := range lower {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}

	return out
}

// Missing returns the entries of lower whose keys are absent from e.
func (e Environ) Missing(lower Environ) Environ {
	out := make(Environ)
	for k, v := range lower {
		if _, ok := e[k]; !ok {
			out[k] = v
		}
	}

	return out
}
