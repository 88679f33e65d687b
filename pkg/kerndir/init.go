package kerndir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ErrConfigExists is returned by WriteConfig when the target file is already
// present and overwriting was not requested.
var ErrConfigExists = errors.New("kerndir: config file already exists")

// EnsureStructure creates the root directory if it is missing. It is safe to
// call multiple times.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.root, 0o750); err != nil {
		return fmt.Errorf("kerndir: create config dir: %w", err)
	}

	return nil
}

// WriteConfig writes values as a dotenv file at path, creating the parent
// directory. An existing file is kept unless force is set.
func WriteConfig(path string, values map[string]string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("kerndir: create parent dir: %w", err)
	}

	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("kerndir: write config: %w", err)
	}

	// The file may hold an API key.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("kerndir: chmod config: %w", err)
	}

	return nil
}
