package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/FairForge/loadplanner/internal/document"
	"github.com/FairForge/loadplanner/internal/loadtest"
)

func newValidateCmd(a *app) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "validate --profile <file>",
		Short: "Check a service profile without generating a plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(profilePath) == "" {
				return errors.New("--profile is required")
			}
			p, err := a.loadProfile(profilePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "profile OK: %s\n", p.Service)
			fmt.Fprintf(out, "  traffic: baseline %d rps, peak %d rps, burst x%g\n",
				p.Traffic.BaselineRPS, p.Traffic.PeakRPS, p.Traffic.BurstFactor)
			fmt.Fprintf(out, "  endpoints: %d (%d critical)\n", len(p.Endpoints), len(p.CriticalEndpoints()))
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "path to a service profile (YAML or JSON)")
	return cmd
}

func newValidatePlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-plan <file>",
		Short: "Check a stored plan (JSON or YAML) against the plan schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read plan: %w", err)
			}

			if document.FormatFromPath(path) == document.FormatYAML {
				if data, err = yamlToJSON(data); err != nil {
					return fmt.Errorf("parse plan: %w", err)
				}
			}
			if err := loadtest.ValidatePlanJSON(data); err != nil {
				return err
			}

			a.logger.Debug("plan validated", zap.String("plan", path))
			fmt.Fprintf(cmd.OutOrStdout(), "plan OK: %s\n", path)
			return nil
		},
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
