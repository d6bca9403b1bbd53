package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairForge/loadplanner/internal/loadtest"
	"github.com/FairForge/loadplanner/internal/metrics"
	"github.com/FairForge/loadplanner/internal/monitoring"
)

type interpretOptions struct {
	Profile  string
	Metrics  string
	Textfile string
}

func newInterpretCmd(a *app) *cobra.Command {
	var opts interpretOptions

	cmd := &cobra.Command{
		Use:     "interpret --metrics <file> --profile <file>",
		Aliases: []string{"interpret-cmd"},
		Short:   "Interpret a metrics summary against a service profile's SLOs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.Metrics) == "" {
				return errors.New("--metrics is required")
			}
			if strings.TrimSpace(opts.Profile) == "" {
				return errors.New("--profile is required")
			}

			p, err := a.loadProfile(opts.Profile)
			if err != nil {
				return err
			}
			summary, warnings, err := metrics.Load(opts.Metrics)
			if err != nil {
				return err
			}

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for _, w := range warnings {
				fmt.Fprintf(stderr, "Warning: %s\n", w)
			}

			result := loadtest.Interpret(summary, p.SLO)
			fmt.Fprintf(stdout, "Status: %s\n", strings.ToUpper(string(result.Status)))
			fmt.Fprintln(stdout, result.Narrative)

			data, err := loadtest.MarshalInterpretation(result, loadtest.DefaultIndent)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, "\n"+string(data))

			if textfile := orDefault(opts.Textfile, a.cfg.Export.Textfile); textfile != "" {
				exporter := monitoring.NewExporter()
				exporter.RecordInterpretation(p.Service, summary, result)
				if err := exporter.WriteTextfile(textfile); err != nil {
					return err
				}
			}

			a.logger.Info("metrics interpreted",
				zap.String("service", p.Service),
				zap.String("metrics", opts.Metrics),
				zap.String("status", string(result.Status)),
				zap.Int("warnings", len(warnings)),
				zap.Int("risks", len(result.Risks)))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Metrics, "metrics", "", "metrics summary file (JSON or CSV)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "service profile to evaluate against")
	cmd.Flags().StringVar(&opts.Textfile, "textfile", "", "write Prometheus textfile metrics to this path")

	return cmd
}
