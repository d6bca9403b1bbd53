package loadtest

import (
	"fmt"
	"strings"

	"github.com/FairForge/loadplanner/internal/profile"
)

// Burst latency thresholds are relaxed by this factor.
const burstLatencyRelaxation = 1.5

// Soak-only resource ceilings.
const (
	soakMemoryPercentCeiling = 85.0
	soakCPUPercentCeiling    = 80.0
)

var commonMetrics = []string{
	"latency_p50",
	"latency_p90",
	"latency_p95",
	"latency_p99",
	"error_rate",
	"throughput_rps",
	"cpu_percent",
	"memory_percent",
}

// GeneratePlan builds the steady, burst, and soak scenarios for a validated
// profile. The output depends only on its inputs; provenance is echoed as
// the plan's profile_path.
func GeneratePlan(p *profile.ServiceProfile, provenance string) *LoadTestPlan {
	return &LoadTestPlan{
		Service:     p.Service,
		ProfilePath: provenance,
		Scenarios: []Scenario{
			steadyScenario(p),
			burstScenario(p),
			soakScenario(p),
		},
		SafetyNotes: safetyNotes(p),
	}
}

// commonChecks derives one latency check per declared percentile, in
// declaration order, followed by the error-rate check.
func commonChecks(p *profile.ServiceProfile) []Check {
	checks := make([]Check, 0, len(p.SLO.LatencyMS)+1)
	for _, pct := range p.SLO.LatencyMS {
		checks = append(checks, Check{
			Metric:      "latency_" + pct.Label,
			Operator:    ComparatorLessOrEqual,
			Threshold:   pct.ThresholdMS,
			Description: fmt.Sprintf("%s latency must be <= %s ms", pct.Label, pct.FormatThreshold()),
		})
	}
	checks = append(checks, Check{
		Metric:      "error_rate",
		Operator:    ComparatorLessOrEqual,
		Threshold:   p.SLO.ErrorRate,
		Description: fmt.Sprintf("error rate must be <= %.1f%%", p.SLO.ErrorRate*100),
	})
	return checks
}

func watched(extra ...string) []string {
	out := make([]string, 0, len(commonMetrics)+len(extra))
	out = append(out, commonMetrics...)
	return append(out, extra...)
}

func steadyScenario(p *profile.ServiceProfile) Scenario {
	baseline := p.Traffic.BaselineRPS
	return Scenario{
		Name: ScenarioSteady,
		Description: fmt.Sprintf("Sustain baseline traffic at %d rps for 10 minutes "+
			"to validate normal-operation SLOs.", baseline),
		Stages: []Stage{
			{Name: StageRampUp, DurationSeconds: 60, TargetRPS: rps(baseline)},
			{Name: StageHold, DurationSeconds: 600, TargetRPS: rps(baseline)},
			{Name: StageRampDown, DurationSeconds: 30, TargetRPS: rps(0)},
		},
		Checks:         commonChecks(p),
		MetricsToWatch: watched(),
	}
}

func burstScenario(p *profile.ServiceProfile) Scenario {
	baseline := p.Traffic.BaselineRPS
	burst := int(float64(p.Traffic.PeakRPS) * p.Traffic.BurstFactor)

	checks := commonChecks(p)
	for i, c := range checks {
		if !strings.HasPrefix(c.Metric, "latency_") {
			continue
		}
		relaxed := c.Threshold * burstLatencyRelaxation
		checks[i] = Check{
			Metric:      c.Metric,
			Operator:    c.Operator,
			Threshold:   relaxed,
			Description: fmt.Sprintf("(burst-relaxed) %s <= %.0f ms", c.Metric, relaxed),
		}
	}

	return Scenario{
		Name: ScenarioBurst,
		Description: fmt.Sprintf("Spike from %d rps to %d rps over 30 seconds, "+
			"hold for 2 minutes, then return to baseline. "+
			"Validates behaviour under sudden traffic surges.", baseline, burst),
		Stages: []Stage{
			{Name: StageRampUp, DurationSeconds: 60, TargetRPS: rps(baseline)},
			{Name: StageHoldBaseline, DurationSeconds: 120, TargetRPS: rps(baseline)},
			{Name: StageSpike, DurationSeconds: 30, TargetRPS: rps(burst)},
			{Name: StageHoldBurst, DurationSeconds: 120, TargetRPS: rps(burst)},
			{Name: StageRecover, DurationSeconds: 60, TargetRPS: rps(baseline)},
			{Name: StageRampDown, DurationSeconds: 30, TargetRPS: rps(0)},
		},
		Checks:         checks,
		MetricsToWatch: watched(),
	}
}

func soakScenario(p *profile.ServiceProfile) Scenario {
	baseline := p.Traffic.BaselineRPS
	checks := append(commonChecks(p),
		Check{
			Metric:      "memory_percent",
			Operator:    ComparatorLessOrEqual,
			Threshold:   soakMemoryPercentCeiling,
			Description: "memory usage must stay below 85% during soak",
		},
		Check{
			Metric:      "cpu_percent",
			Operator:    ComparatorLessOrEqual,
			Threshold:   soakCPUPercentCeiling,
			Description: "CPU usage must stay below 80% during soak",
		},
	)

	return Scenario{
		Name: ScenarioSoak,
		Description: fmt.Sprintf("Run at baseline (%d rps) for 60 minutes "+
			"to detect slow leaks, connection exhaustion, or GC pressure.", baseline),
		Stages: []Stage{
			{Name: StageRampUp, DurationSeconds: 120, TargetRPS: rps(baseline)},
			{Name: StageHold, DurationSeconds: 3600, TargetRPS: rps(baseline)},
			{Name: StageRampDown, DurationSeconds: 60, TargetRPS: rps(0)},
		},
		Checks:         checks,
		MetricsToWatch: watched("gc_pause_ms"),
	}
}

func safetyNotes(p *profile.ServiceProfile) *SafetyNotes {
	var testData string
	switch {
	case p.Data.UsesProductionData:
		testData = "WARNING: profile indicates production data may be in use. " +
			"Ensure PII masking and data-handling policies are followed."
	case p.Data.Notes != "":
		testData = p.Data.Notes
	default:
		testData = "Use synthetic/test data only."
	}

	deps := "none listed"
	if len(p.Dependencies) > 0 {
		deps = strings.Join(p.Dependencies, ", ")
	}

	return &SafetyNotes{
		TestDataHandling: testData,
		EnvironmentIsolation: fmt.Sprintf("Ensure load tests run against an isolated environment. "+
			"Dependencies (%s) should be stubbed or provisioned in test mode.", deps),
		CleanupSteps: "After test completion, tear down any provisioned test data " +
			"and verify no side-effects leaked to shared environments.",
	}
}
