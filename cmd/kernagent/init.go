package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/kernagent/kernagent/pkg/kerndir"
	"github.com/kernagent/kernagent/pkg/settings"
)

// promptSettings edits s interactively. Tests replace it.
var promptSettings = func(s *settings.Settings) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("API key").
			Description("Sent as the bearer token; local servers usually ignore it.").
			EchoMode(huh.EchoModePassword).
			Value(&s.APIKey),
		huh.NewInput().
			Title("Base URL").
			Description("OpenAI-compatible endpoint.").
			Value(&s.BaseURL),
		huh.NewInput().
			Title("Model").
			Value(&s.Model),
		huh.NewConfirm().
			Title("Enable debug logging?").
			Value(&s.Debug),
	)).Run()
}

func runInit(args []string, stdout, stderr io.Writer, log *slog.Logger) error {
	fs := newFlagSet("init", "Write a kernagent config file, prefilled with the current settings.", stderr)
	cfgPath := fs.String("config", "", "path to write (default: $KERNAGENT_CONFIG or <config-home>/kernagent/config.env)")
	force := fs.Bool("force", false, "overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env := settings.FromProcess()

	// An explicit or overridden path is written as given; the default
	// location gets its directory created first.
	path := *cfgPath
	var dir *kerndir.Dir
	if path == "" {
		if p, ok := kerndir.Override(env); ok {
			if p == "" {
				return fmt.Errorf("init: %s is set but empty; pass -config", kerndir.ConfigEnvVar)
			}
			path = p
		} else {
			d := kerndir.Default(env)
			dir, path = &d, d.ConfigPath()
		}
	}

	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%w: %s (use -force to overwrite)", kerndir.ErrConfigExists, path)
	}

	r := settings.New()
	r.Logger = log

	s, err := r.Resolve(env)
	if err != nil {
		// Only reachable with -force over an unreadable file; start from
		// the environment alone.
		log.Warn("ignoring existing config file", "path", path, "error", err)
		s, _ = settings.Resolver{Logger: log}.Resolve(env)
	}

	if err := promptSettings(&s); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("init: aborted")
		}
		return fmt.Errorf("init: %w", err)
	}

	if dir != nil {
		if err := kerndir.EnsureStructure(*dir); err != nil {
			return err
		}
	}

	if err := kerndir.WriteConfig(path, s.Env(), *force); err != nil {
		return err
	}
	log.Debug("config written", "path", path, "settings", s)

	_, err = fmt.Fprintf(stdout, "Wrote %s\n", path)
	return err
}
