// Package loadtest turns a validated service profile into a load test plan
// and judges observed metrics against the profile's objectives.
//
// # Overview
//
// The package is pure: it never runs traffic, reads clocks, or touches the
// network. Two operations make up its surface:
//
//   - GeneratePlan: derive steady, burst, and soak scenarios from a profile
//   - Interpret: compare a metrics summary against a profile's SLO
//
// # Quick Start
//
//	p, err := profile.Load("profiles/checkout.yaml")
//	if err != nil {
//	    return err
//	}
//	plan := loadtest.GeneratePlan(p, "profiles/checkout.yaml")
//	out, _ := loadtest.MarshalPlan(plan, document.FormatJSON, loadtest.DefaultIndent)
//
// # Scenarios
//
// ## Steady
//
// Ramp to baseline over 60s, hold for 10 minutes, ramp down over 30s.
//
// ## Burst
//
// Hold baseline, spike to peak_rps * burst_factor within 30s, hold the burst
// for 2 minutes, then recover. Latency thresholds are relaxed by 50%; the
// error-rate check is unchanged.
//
// ## Soak
//
// Hold baseline for 60 minutes. Adds memory (<= 85%) and CPU (<= 80%)
// ceilings and watches gc_pause_ms.
//
// # Interpretation
//
// Only the p95 and p99 percentiles are judged, plus the error rate. Missing
// metrics produce skipped checks, never errors. Resource saturation (CPU or
// memory above 80%, GC pauses above 100ms) is reported as a risk and turns a
// passing result into a warning.
//
// # Schema
//
// Serialized plans can be checked with ValidatePlanJSON, which applies the
// embedded JSON Schema.
package loadtest
