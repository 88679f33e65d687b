package settings

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/kernagent/kernagent/pkg/kerndir"
)

// Environment variables read by the resolver.
const (
	APIKeyEnvVar  = "OPENAI_API_KEY"
	BaseURLEnvVar = "OPENAI_BASE_URL"
	ModelEnvVar   = "OPENAI_MODEL"
	DebugEnvVar   = "DEBUG"
)

// Defaults applied when neither the environment nor the config file supplies
// a value.
const (
	DefaultAPIKey  = "not-needed" //nolint:gosec // placeholder for local endpoints, not a secret
	DefaultBaseURL = "http://localhost:1234/v1"
	DefaultModel   = "kernagent-default-model"
	DefaultDebug   = false
)

// Keys lists the settings variables in display order.
var Keys = []string{APIKeyEnvVar, BaseURLEnvVar, ModelEnvVar, DebugEnvVar}

var defaults = map[string]string{
	APIKeyEnvVar:  DefaultAPIKey,
	BaseURLEnvVar: DefaultBaseURL,
	ModelEnvVar:   DefaultModel,
	DebugEnvVar:   "false",
}

// Settings holds the connection parameters for an OpenAI-compatible API.
// It is a plain value; two Settings are equal when their fields are.
type Settings struct {
	APIKey  string `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Debug   bool   `yaml:"debug"`
}

// Default returns the Settings used when nothing is configured.
func Default() Settings {
	return Settings{
		APIKey:  DefaultAPIKey,
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		Debug:   DefaultDebug,
	}
}

// LogValue implements slog.LogValuer with the API key masked.
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("api_key", MaskKey(s.APIKey)),
		slog.String("base_url", s.BaseURL),
		slog.String("model", s.Model),
		slog.Bool("debug", s.Debug),
	)
}

// Env returns s as dotenv pairs, suitable for writing a config file.
func (s Settings) Env() Environ {
	return Environ{
		APIKeyEnvVar:  s.APIKey,
		BaseURLEnvVar: s.BaseURL,
		ModelEnvVar:   s.Model,
		DebugEnvVar:   fmt.Sprintf("%t", s.Debug),
	}
}

// ParseDebug reports whether v is "true", ignoring case. Every other value,
// including "1" and "yes", is false.
func ParseDebug(v string) bool {
	return strings.ToLower(v) == "true"
}

// MaskKey hides all but the edges of an API key. The placeholder default and
// the empty string are returned unchanged.
func MaskKey(k string) string {
	switch {
	case k == "" || k == DefaultAPIKey:
		return k
	case len(k) <= 8:
		return strings.Repeat("*", len(k))
	default:
		return k[:3] + "****" + k[len(k)-4:]
	}
}

// Source tells where a resolved value came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Field is one resolved value together with its origin.
type Field struct {
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Source Source `yaml:"source"`
}

// Resolver computes Settings from an environment snapshot. The zero value
// skips the config file; use New for dotenv support.
type Resolver struct {
	// Loader parses the config file. Nil disables file loading.
	Loader Loader

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// New returns a Resolver that reads the config file with godotenv.
func New() Resolver {
	return Resolver{Loader: DotenvLoader{}}
}

// Resolve returns the Settings described by env with the config file merged
// beneath it. env is not modified. Missing variables and a missing file fall
// back to defaults; only a config file the loader rejects yields an error.
func (r Resolver) Resolve(env Environ) (Settings, error) {
	file, err := r.readFile(env)
	if err != nil {
		return Settings{}, err
	}

	s := fromEnv(env.Beneath(file))
	r.log().Debug("settings resolved", "settings", s)

	return s, nil
}

// Explain resolves like Resolve and reports the source of every value in
// Keys order.
func (r Resolver) Explain(env Environ) ([]Field, error) {
	file, err := r.readFile(env)
	if err != nil {
		return nil, err
	}

	return explain(env, file), nil
}

// Apply passes every config file entry that env lacks to setenv, in key
// order, and returns the entries it applied. Keys present in env are never
// written.
func (r Resolver) Apply(env Environ, setenv func(key, value string) error) (Environ, error) {
	file, err := r.readFile(env)
	if err != nil {
		return nil, err
	}

	return r.apply(env, file, setenv)
}

// Report is one resolution of the process environment together with the
// origin of every value.
type Report struct {
	Settings   Settings
	Fields     []Field
	ConfigPath string

	// Imported holds the config file entries written into the process
	// environment.
	Imported Environ
}

// LoadReport imports missing config file entries into the process
// environment and resolves Settings from the result, reading the file once.
// Fields describe the environment as it was before the import. Resolve once
// at startup, before other goroutines read the environment.
func (r Resolver) LoadReport() (Report, error) {
	env := FromProcess()

	file, err := r.readFile(env)
	if err != nil {
		return Report{}, err
	}

	added, err := r.apply(env, file, os.Setenv)
	if err != nil {
		return Report{}, err
	}

	s := fromEnv(env.Beneath(file))
	r.log().Debug("settings resolved", "settings", s)

	return Report{
		Settings:   s,
		Fields:     explain(env, file),
		ConfigPath: kerndir.ConfigPath(env),
		Imported:   added,
	}, nil
}

// Load is LoadReport without the provenance.
func (r Resolver) Load() (Settings, error) {
	rep, err := r.LoadReport()
	if err != nil {
		return Settings{}, err
	}

	return rep.Settings, nil
}

// Load resolves Settings from the process environment using New.
func Load() (Settings, error) {
	return New().Load()
}

func (r Resolver) apply(env, file Environ, setenv func(key, value string) error) (Environ, error) {
	added := env.Missing(file)
	for _, k := range slices.Sorted(maps.Keys(added)) {
		if err := setenv(k, added[k]); err != nil {
			return nil, fmt.Errorf("settings: set %s: %w", k, err)
		}
	}

	if len(added) > 0 {
		r.log().Debug("config file imported", "keys", len(added))
	}

	return added, nil
}

func explain(env, file Environ) []Field {
	fields := make([]Field, 0, len(Keys))
	for _, k := range Keys {
		f := Field{Key: k, Value: defaults[k], Source: SourceDefault}
		if v, ok := env.Lookup(k); ok {
			f.Value, f.Source = v, SourceEnv
		} else if v, ok := file.Lookup(k); ok {
			f.Value, f.Source = v, SourceFile
		}
		fields = append(fields, f)
	}

	return fields
}

// readFile returns the config file entries, or nil when there is no loader
// or no file.
func (r Resolver) readFile(env Environ) (Environ, error) {
	if r.Loader == nil {
		return nil, nil
	}

	path := kerndir.ConfigPath(env)
	if !kerndir.FileExists(path) {
		r.log().Debug("no config file", "path", path)
		return nil, nil
	}

	file, err := r.Loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("settings: load config file %s: %w", path, err)
	}

	r.log().Debug("config file read", "path", path, "keys", len(file))

	return file, nil
}

func (r Resolver) log() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func fromEnv(env Environ) Settings {
	return Settings{
		APIKey:  env.Get(APIKeyEnvVar, DefaultAPIKey),
		BaseURL: env.Get(BaseURLEnvVar, DefaultBaseURL),
		Model:   env.Get(ModelEnvVar, DefaultModel),
		Debug:   ParseDebug(env.Get(DebugEnvVar, "false")),
	}
}
