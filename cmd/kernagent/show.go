package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/kernagent/kernagent/pkg/kerndir"
	"github.com/kernagent/kernagent/pkg/settings"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

const markdownWidth = 100

// showOptions controls how resolved settings are printed.
type showOptions struct {
	Format  string
	Reveal  bool
	Sources bool
}

// report is everything show prints.
type report struct {
	Settings   settings.Settings
	Fields     []settings.Field
	ConfigPath string
	Status     configState
}

// configState describes what exists at the config location.
type configState string

const (
	configFound  configState = "exists"
	configAbsent configState = "missing"
	configNoDir  configState = "no-dir"
)

// configStatus reports whether the config file exists. When the default
// location is in use and the kernagent config directory itself is missing,
// it reports configNoDir.
func configStatus(env settings.Environ, path string) configState {
	if kerndir.FileExists(path) {
		return configFound
	}
	if _, overridden := kerndir.Override(env); !overridden && !kerndir.Default(env).Exists() {
		return configNoDir
	}

	return configAbsent
}

func runShow(args []string, stdout, stderr io.Writer, log *slog.Logger, level *slog.LevelVar) error {
	fs := newFlagSet("show", "Print the settings resolved from the environment and config file.", stderr)
	format := fs.String("format", "text", "output format: text, yaml, env or markdown")
	reveal := fs.Bool("reveal", false, "print the API key unmasked")
	sources := fs.Bool("sources", false, "include where each value came from")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := settings.New()
	r.Logger = log

	env := settings.FromProcess()
	rep, err := r.LoadReport()
	if err != nil {
		return err
	}
	if rep.Settings.Debug {
		level.Set(slog.LevelDebug)
	}
	log.Debug("settings loaded", "settings", rep.Settings, "imported", len(rep.Imported))

	return render(stdout, report{
		Settings:   rep.Settings,
		Fields:     rep.Fields,
		ConfigPath: rep.ConfigPath,
		Status:     configStatus(env, rep.ConfigPath),
	}, showOptions{Format: *format, Reveal: *reveal, Sources: *sources})
}

func render(w io.Writer, rep report, opts showOptions) error {
	if !opts.Reveal {
		rep.Settings.APIKey = settings.MaskKey(rep.Settings.APIKey)
		for i := range rep.Fields {
			if rep.Fields[i].Key == settings.APIKeyEnvVar {
				rep.Fields[i].Value = settings.MaskKey(rep.Fields[i].Value)
			}
		}
	}

	switch opts.Format {
	case "text", "":
		_, err := io.WriteString(w, renderText(rep, opts.Sources))
		return err
	case "yaml":
		return renderYAML(w, rep, opts.Sources)
	case "env":
		return renderEnv(w, rep.Settings)
	case "markdown", "md":
		return renderMarkdown(w, rep, opts.Sources)
	default:
		return fmt.Errorf("show: unknown format %q", opts.Format)
	}
}

// settingValues returns the display value of each key in settings.Keys order.
func settingValues(s settings.Settings) []string {
	return []string{s.APIKey, s.BaseURL, s.Model, fmt.Sprintf("%t", s.Debug)}
}

func renderText(rep report, withSources bool) string {
	width := 0
	for _, k := range settings.Keys {
		width = max(width, runewidth.StringWidth(k))
	}

	var sb strings.Builder

	var status string
	switch rep.Status {
	case configFound:
		status = foundStyle.Render("found")
	case configNoDir:
		status = missingStyle.Render("not found, no config dir")
	default:
		status = missingStyle.Render("not found")
	}
	fmt.Fprintf(&sb, "%s %s (%s)\n", dimStyle.Render("config"), rep.ConfigPath, status)

	values := settingValues(rep.Settings)
	for i, k := range settings.Keys {
		sb.WriteString(keyStyle.Render(runewidth.FillRight(k, width)))
		sb.WriteString("  ")
		sb.WriteString(values[i])
		if withSources && i < len(rep.Fields) {
			sb.WriteString("  ")
			sb.WriteString(dimStyle.Render("[" + string(rep.Fields[i].Source) + "]"))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderYAML(w io.Writer, rep report, withSources bool) error {
	var v any = rep.Settings
	if withSources {
		v = struct {
			Config string           `yaml:"config"`
			Fields []settings.Field `yaml:"fields"`
		}{Config: rep.ConfigPath, Fields: rep.Fields}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("show: encode yaml: %w", err)
	}

	return enc.Close()
}

func renderEnv(w io.Writer, s settings.Settings) error {
	out, err := godotenv.Marshal(s.Env())
	if err != nil {
		return fmt.Errorf("show: encode env: %w", err)
	}

	_, err = fmt.Fprintln(w, out)
	return err
}

// markdownTable builds the markdown source rendered by the markdown format.
func markdownTable(rep report, withSources bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Config file: `%s`\n\n", rep.ConfigPath)
	if withSources {
		sb.WriteString("| Variable | Value | Source |\n|---|---|---|\n")
	} else {
		sb.WriteString("| Variable | Value |\n|---|---|\n")
	}

	values := settingValues(rep.Settings)
	for i, k := range settings.Keys {
		fmt.Fprintf(&sb, "| `%s` | %s |", k, values[i])
		if withSources && i < len(rep.Fields) {
			fmt.Fprintf(&sb, " %s |", rep.Fields[i].Source)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderMarkdown(w io.Writer, rep report, withSources bool) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return fmt.Errorf("show: markdown renderer: %w", err)
	}

	out, err := r.Render(markdownTable(rep, withSources))
	if err != nil {
		return fmt.Errorf("show: render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

func runPath(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("path", "Print the config file location and whether it exists.", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	env := settings.FromProcess()
	path := kerndir.ConfigPath(env)

	_, err := fmt.Fprintf(stdout, "%s\t%s\n", path, configStatus(env, path))
	return err
}
