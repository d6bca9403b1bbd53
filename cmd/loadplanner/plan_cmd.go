package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairForge/loadplanner/internal/document"
	"github.com/FairForge/loadplanner/internal/evidence"
	"github.com/FairForge/loadplanner/internal/loadtest"
	"github.com/FairForge/loadplanner/internal/metrics"
	"github.com/FairForge/loadplanner/internal/monitoring"
	"github.com/FairForge/loadplanner/internal/watch"
)

type planOptions struct {
	Profile  string
	OutPath  string
	Format   string
	LogPath  string
	Metrics  string
	Textfile string
	Watch    bool
}

func newPlanCmd(a *app) *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan --profile <file> [--out <file>] [--metrics <file>] [--log <file>]",
		Short: "Generate a load test plan from a service profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.Profile) == "" {
				return errors.New("--profile is required")
			}
			format, err := a.outputFormat(cmd, opts.Format)
			if err != nil {
				return err
			}
			opts.LogPath = orDefault(opts.LogPath, a.cfg.Evidence.Path)
			opts.Textfile = orDefault(opts.Textfile, a.cfg.Export.Textfile)

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			if !opts.Watch {
				return a.runPlan(stdout, stderr, opts, format)
			}

			if err := a.runPlan(stdout, stderr, opts, format); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
			}
			w, err := watch.New(watch.Config{
				Path:     opts.Profile,
				Debounce: a.cfg.Watch.Debounce,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			return w.Run(cmd.Context(), func(context.Context) error {
				err := a.runPlan(stdout, stderr, opts, format)
				if err != nil {
					fmt.Fprintf(stderr, "Error: %v\n", err)
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Profile, "profile", "", "path to a service profile (YAML or JSON)")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "write the plan to this file instead of stdout")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "plan output format (json, yaml)")
	cmd.Flags().StringVar(&opts.LogPath, "log", "", "append an evidence entry to this JSONL file")
	cmd.Flags().StringVar(&opts.Metrics, "metrics", "", "metrics summary (JSON or CSV) to interpret against the SLO")
	cmd.Flags().StringVar(&opts.Textfile, "textfile", "", "write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "regenerate the plan whenever the profile changes")

	return cmd
}

func (a *app) runPlan(stdout, stderr io.Writer, opts planOptions, format document.Format) error {
	p, err := a.loadProfile(opts.Profile)
	if err != nil {
		return err
	}

	plan := loadtest.GeneratePlan(p, opts.Profile)
	data, err := loadtest.MarshalPlan(plan, format, a.cfg.Output.Indent)
	if err != nil {
		return err
	}

	if opts.OutPath != "" {
		if dir := filepath.Dir(opts.OutPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := os.WriteFile(opts.OutPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		fmt.Fprintf(stdout, "Plan written to %s\n", opts.OutPath)
	} else {
		fmt.Fprintln(stdout, string(data))
	}

	var exporter *monitoring.Exporter
	if opts.Textfile != "" {
		exporter = monitoring.NewExporter()
		exporter.RecordPlan(plan)
	}

	outcome := evidence.OutcomePlanGenerated
	interpreted := false
	if opts.Metrics != "" {
		summary, warnings, err := metrics.Load(opts.Metrics)
		if err != nil {
			a.logger.Warn("metrics interpretation skipped", zap.String("metrics", opts.Metrics), zap.Error(err))
			fmt.Fprintf(stderr, "Warning: could not interpret metrics: %v\n", err)
		} else {
			for _, w := range warnings {
				fmt.Fprintf(stderr, "Warning: %s\n", w)
			}
			result := loadtest.Interpret(summary, p.SLO)
			interpreted = true

			fmt.Fprintln(stdout, "\n--- Metrics Interpretation ---")
			fmt.Fprintf(stdout, "Status: %s\n", strings.ToUpper(string(result.Status)))
			fmt.Fprintln(stdout, result.Narrative)

			if result.Status == loadtest.StatusFail {
				outcome = evidence.OutcomeIssuesDetected
			} else {
				outcome = evidence.OutcomePlanAndInterpretation
			}
			if exporter != nil {
				exporter.RecordInterpretation(p.Service, summary, result)
			}
		}
	}

	if opts.LogPath != "" {
		rec := evidence.NewRecorder(opts.LogPath, a.logger)
		if _, err := rec.Record(p.Service, opts.Profile, plan.ScenarioNames(), interpreted, outcome); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Evidence logged to %s\n", opts.LogPath)
	}

	if exporter != nil {
		if err := exporter.WriteTextfile(opts.Textfile); err != nil {
			return err
		}
		a.logger.Debug("textfile metrics written", zap.String("path", opts.Textfile))
	}

	a.logger.Info("plan generated",
		zap.String("service", p.Service),
		zap.String("profile", opts.Profile),
		zap.Strings("scenarios", plan.ScenarioNames()),
		zap.String("outcome", string(outcome)))
	return nil
}
