// internal/monitoring/exporter.go
package monitoring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FairForge/loadplanner/internal/loadtest"
	"github.com/FairForge/loadplanner/internal/metrics"
)

var statuses = []loadtest.Status{loadtest.StatusPass, loadtest.StatusWarning, loadtest.StatusFail}

// Exporter collects plan and interpretation results as Prometheus gauges
// for the node_exporter textfile collector.
type Exporter struct {
	registry *prometheus.Registry

	scenarioDuration *prometheus.GaugeVec
	scenarioPeakRPS  *prometheus.GaugeVec
	checkResult      *prometheus.GaugeVec
	status           *prometheus.GaugeVec
	observed         *prometheus.GaugeVec
	risks            *prometheus.GaugeVec
}

// NewExporter creates an exporter with its own registry.
func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Exporter{
		registry: reg,
		scenarioDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadplanner_scenario_duration_seconds",
				Help: "Planned total duration of a scenario",
			},
			[]string{"service", "scenario"},
		),
		scenarioPeakRPS: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadplanner_scenario_peak_rps",
				Help: "Highest target request rate of a scenario",
			},
			[]string{"service", "scenario"},
		),
		checkResult: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadplanner_slo_check_result",
				Help: "SLO check outcome (1 for the reported result)",
			},
			[]string{"service", "metric", "result"},
		),
		status: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadplanner_interpretation_status",
				Help: "Overall interpretation status (1 for the current status)",
			},
			[]string{"service", "status"},
		),
		observed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadplanner_observed_metric",
				Help: "Observed value from the interpreted metrics summary",
			},
			[]string{"service", "metric"},
		),
		risks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadplanner_risks",
				Help: "Number of resource risks detected",
			},
			[]string{"service"},
		),
	}
}

// Gatherer exposes the exporter's registry.
func (e *Exporter) Gatherer() prometheus.Gatherer {
	return e.registry
}

// RecordPlan exports the shape of each generated scenario.
func (e *Exporter) RecordPlan(plan *loadtest.LoadTestPlan) {
	for _, s := range plan.Scenarios {
		peak := 0
		for _, st := range s.Stages {
			if st.TargetRPS != nil && *st.TargetRPS > peak {
				peak = *st.TargetRPS
			}
		}
		e.scenarioDuration.WithLabelValues(plan.Service, s.Name).Set(float64(s.TotalDurationSeconds()))
		e.scenarioPeakRPS.WithLabelValues(plan.Service, s.Name).Set(float64(peak))
	}
}

// RecordInterpretation exports check outcomes, the overall status, and the
// observed metrics that were provided.
func (e *Exporter) RecordInterpretation(service string, summary *metrics.Summary, r *loadtest.Interpretation) {
	for _, c := range r.Checks {
		e.checkResult.WithLabelValues(service, c.Metric, string(c.Result)).Set(1)
	}
	for _, s := range statuses {
		v := 0.0
		if s == r.Status {
			v = 1
		}
		e.status.WithLabelValues(service, string(s)).Set(v)
	}
	if summary != nil {
		for _, o := range summary.Observed() {
			e.observed.WithLabelValues(service, o.Name).Set(o.Value)
		}
	}
	e.risks.WithLabelValues(service).Set(float64(len(r.Risks)))
}

// WriteTextfile writes all collected metrics to path. The file is replaced
// atomically so the textfile collector never reads a partial write.
func (e *Exporter) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("monitoring: textfile path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("monitoring: create textfile directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("monitoring: write textfile: %w", err)
	}
	return nil
}
