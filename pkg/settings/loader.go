package settings

import (
	"github.com/joho/godotenv"
)

// Loader parses a config file into key/value pairs. A nil Loader means the
// file step is unavailable and is skipped without error.
type Loader interface {
	Load(path string) (Environ, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (Environ, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (Environ, error) { return f(path) }

// DotenvLoader reads KEY=VALUE files with godotenv. Malformed input fails
// with godotenv's own error.
type DotenvLoader struct{}

// Load parses the dotenv file at path without touching the process
// environment. References such as ${VAR} inside values are expanded by
// godotenv against the file itself and the real process environment, not
// against the Environ snapshot given to the Resolver.
func (DotenvLoader) Load(path string) (Environ, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}

	return Environ(m), nil
}
