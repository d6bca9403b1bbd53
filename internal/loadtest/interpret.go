package loadtest

import (
	"fmt"
	"strings"

	"github.com/FairForge/loadplanner/internal/metrics"
	"github.com/FairForge/loadplanner/internal/profile"
)

// Status is the overall verdict of an interpretation.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

// Result is the outcome of a single check.
type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
	ResultSkip Result = "skip"
)

// Fixed resource-risk thresholds, independent of the profile.
const (
	riskCPUPercent    = 80.0
	riskMemoryPercent = 80.0
	riskGCPauseMS     = 100.0
)

// CheckResult captures the result of a single SLO check.
type CheckResult struct {
	Metric string `json:"metric"`
	Result Result `json:"result"`
	Detail string `json:"detail"`
}

// Interpretation is the verdict on an observed metrics summary.
type Interpretation struct {
	Status    Status        `json:"status"`
	Narrative string        `json:"-"`
	Checks    []CheckResult `json:"checks"`
	Risks     []string      `json:"risks"`
}

// Failed returns the failing checks in order.
func (r *Interpretation) Failed() []CheckResult {
	failed := make([]CheckResult, 0)
	for _, c := range r.Checks {
		if c.Result == ResultFail {
			failed = append(failed, c)
		}
	}
	return failed
}

// interpretedPercentiles are the only latency percentiles compared against
// observed metrics. Other SLO percentiles are planned but never judged.
var interpretedPercentiles = []struct {
	label string
	value func(*metrics.Summary) *float64
}{
	{"p95", func(s *metrics.Summary) *float64 { return s.P95MS }},
	{"p99", func(s *metrics.Summary) *float64 { return s.P99MS }},
}

// Interpret evaluates an observed summary against a profile's SLO. A fail
// outranks a warning, which outranks a pass; risks alone never fail.
func Interpret(m *metrics.Summary, slo profile.SLO) *Interpretation {
	if m == nil {
		m = &metrics.Summary{}
	}
	result := &Interpretation{
		Checks: make([]CheckResult, 0, len(interpretedPercentiles)+1),
		Risks:  make([]string, 0),
	}
	anyFail := false

	for _, pct := range interpretedPercentiles {
		objective, ok := slo.Percentile(pct.label)
		if !ok {
			continue
		}
		metric := "latency_" + pct.label
		value := pct.value(m)
		if value == nil {
			result.Checks = append(result.Checks, CheckResult{
				Metric: metric,
				Result: ResultSkip,
				Detail: fmt.Sprintf("%s latency not provided in metrics", pct.label),
			})
			continue
		}
		passed := ComparatorLessOrEqual.Compare(*value, objective.ThresholdMS)
		result.Checks = append(result.Checks, CheckResult{
			Metric: metric,
			Result: resultOf(passed),
			Detail: fmt.Sprintf("%s latency: %.1f ms (threshold: %s ms)", pct.label, *value, objective.FormatThreshold()),
		})
		anyFail = anyFail || !passed
	}

	if m.ErrorRate != nil {
		passed := ComparatorLessOrEqual.Compare(*m.ErrorRate, slo.ErrorRate)
		result.Checks = append(result.Checks, CheckResult{
			Metric: "error_rate",
			Result: resultOf(passed),
			Detail: fmt.Sprintf("error rate: %.2f%% (threshold: %.1f%%)", *m.ErrorRate*100, slo.ErrorRate*100),
		})
		anyFail = anyFail || !passed
	} else {
		result.Checks = append(result.Checks, CheckResult{
			Metric: "error_rate",
			Result: ResultSkip,
			Detail: "error rate not provided in metrics",
		})
	}

	if m.CPUPercent != nil && *m.CPUPercent > riskCPUPercent {
		result.Risks = append(result.Risks, fmt.Sprintf("High CPU usage: %.0f%%", *m.CPUPercent))
	}
	if m.MemoryPercent != nil && *m.MemoryPercent > riskMemoryPercent {
		result.Risks = append(result.Risks, fmt.Sprintf("High memory usage: %.0f%%", *m.MemoryPercent))
	}
	if m.GCPauseMS != nil && *m.GCPauseMS > riskGCPauseMS {
		result.Risks = append(result.Risks, fmt.Sprintf("Elevated GC pause: %.0f ms", *m.GCPauseMS))
	}

	switch {
	case anyFail:
		result.Status = StatusFail
	case len(result.Risks) > 0:
		result.Status = StatusWarning
	default:
		result.Status = StatusPass
	}
	result.Narrative = result.narrative(m)
	return result
}

func resultOf(passed bool) Result {
	if passed {
		return ResultPass
	}
	return ResultFail
}

func (r *Interpretation) narrative(m *metrics.Summary) string {
	var lines []string
	switch r.Status {
	case StatusPass:
		lines = append(lines, "All SLO checks passed.")
	case StatusFail:
		failed := r.Failed()
		lines = append(lines, fmt.Sprintf("SLO VIOLATION: %d check(s) failed.", len(failed)))
		for _, c := range failed {
			lines = append(lines, "  - "+c.Detail)
		}
	default:
		lines = append(lines, "SLO checks passed, but risks were detected.")
	}

	if m.ThroughputRPS != nil {
		lines = append(lines, fmt.Sprintf("Throughput: %.0f rps", *m.ThroughputRPS))
	}

	if len(r.Risks) > 0 {
		lines = append(lines, "Risks:")
		for _, risk := range r.Risks {
			lines = append(lines, "  - "+risk)
		}
	}
	return strings.Join(lines, "\n")
}
