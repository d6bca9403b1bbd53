package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairForge/loadplanner/internal/config"
	"github.com/FairForge/loadplanner/internal/document"
	"github.com/FairForge/loadplanner/internal/logging"
	"github.com/FairForge/loadplanner/internal/profile"
)

// app carries state shared by every subcommand for one invocation.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
	runID  string
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(&logging.LoggerConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger, a.runID = logging.WithRunID(logger)
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config", a.configPath))
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) loadProfile(path string) (*profile.ServiceProfile, error) {
	p, err := profile.Load(path)
	if err != nil {
		a.logger.Debug("profile rejected", zap.String("profile", path), zap.Error(err))
		return nil, err
	}
	a.logger.Debug("profile loaded",
		zap.String("profile", path),
		zap.String("service", p.Service),
		zap.Int("endpoints", len(p.Endpoints)))
	return p, nil
}

// outputFormat resolves --format against the configured default.
func (a *app) outputFormat(cmd *cobra.Command, flagValue string) (document.Format, error) {
	name := a.cfg.Output.Format
	if cmd.Flags().Changed("format") {
		name = flagValue
	}
	switch strings.ToLower(name) {
	case "json":
		return document.FormatJSON, nil
	case "yaml", "yml":
		return document.FormatYAML, nil
	default:
		return document.FormatUnknown, fmt.Errorf("unsupported output format: %s (expected json or yaml)", name)
	}
}

// orDefault returns the flag value when set, otherwise the configured one.
func orDefault(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	return configured
}
