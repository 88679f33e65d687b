package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	"github.com/kernagent/kernagent/pkg/kerndir"
	"github.com/kernagent/kernagent/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPrompt replaces the interactive form for the duration of a test.
func stubPrompt(t *testing.T, fn func(*settings.Settings) error) {
	t.Helper()

	orig := promptSettings
	promptSettings = fn
	t.Cleanup(func() { promptSettings = orig })
}

func TestRunInit_WritesConfig(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OPENAI_BASE_URL", "http://env.test/v1")

	var seen settings.Settings
	stubPrompt(t, func(s *settings.Settings) error {
		seen = *s
		s.Model = "picked"
		return nil
	})

	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"init"}, &out, &errOut))

	// The form is prefilled with the current settings.
	assert.Equal(t, "http://env.test/v1", seen.BaseURL)
	assert.Equal(t, settings.DefaultModel, seen.Model)

	assert.True(t, kerndir.Default(settings.Environ{"XDG_CONFIG_HOME": dir}).Exists())

	path := filepath.Join(dir, "kernagent", "config.env")
	assert.Contains(t, out.String(), path)

	got, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "picked", got["OPENAI_MODEL"])
	assert.Equal(t, "http://env.test/v1", got["OPENAI_BASE_URL"])
	assert.Equal(t, "false", got["DEBUG"])
}

func TestRunInit_ExplicitPath(t *testing.T) {
	isolate(t)
	stubPrompt(t, func(*settings.Settings) error { return nil })

	path := filepath.Join(t.TempDir(), "custom.env")

	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"init", "-config", path}, &out, &errOut))

	got, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultAPIKey, got["OPENAI_API_KEY"])
}

func TestRunInit_EmptyOverride(t *testing.T) {
	isolate(t)
	t.Setenv("KERNAGENT_CONFIG", "")

	called := false
	stubPrompt(t, func(*settings.Settings) error {
		called = true
		return nil
	})

	var out, errOut bytes.Buffer
	err := run([]string{"init"}, &out, &errOut)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "KERNAGENT_CONFIG is set but empty")
	assert.False(t, called)
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("OPENAI_MODEL=old\n"), 0o600))

	called := false
	stubPrompt(t, func(*settings.Settings) error {
		called = true
		return nil
	})

	var out, errOut bytes.Buffer
	err := run([]string{"init", "-config", path}, &out, &errOut)

	require.ErrorIs(t, err, kerndir.ErrConfigExists)
	assert.False(t, called, "prompt must not run when the file exists")
}

func TestRunInit_ForceOverMalformed(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("BAD-KEY=1\n"), 0o600))
	t.Setenv("KERNAGENT_CONFIG", path)

	stubPrompt(t, func(s *settings.Settings) error {
		s.Model = "fresh"
		return nil
	})

	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"init", "-force"}, &out, &errOut))

	got, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got["OPENAI_MODEL"])
	assert.Contains(t, errOut.String(), "ignoring existing config file")
}

func TestRunInit_Aborted(t *testing.T) {
	isolate(t)
	stubPrompt(t, func(*settings.Settings) error { return huh.ErrUserAborted })

	var out, errOut bytes.Buffer
	err := run([]string{"init"}, &out, &errOut)

	require.Error(t, err)
	assert.Equal(t, "init: aborted", err.Error())
}

func TestRunInit_PromptError(t *testing.T) {
	isolate(t)
	stubPrompt(t, func(*settings.Settings) error { return errors.New("no tty") })

	var out, errOut bytes.Buffer
	err := run([]string{"init"}, &out, &errOut)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "init: no tty")
}
