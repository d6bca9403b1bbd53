package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairForge/loadplanner/internal/evidence"
)

const (
	checkoutProfile = "../../internal/profile/testdata/checkout-profile.yaml"
	passingMetrics  = "../../internal/metrics/testdata/metrics-passing.json"
	failingMetrics  = "../../internal/metrics/testdata/metrics-failing.json"
	partialMetrics  = "../../internal/metrics/testdata/metrics-partial.csv"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPlanCommand_Stdout(t *testing.T) {
	stdout, _, err := run(t, "plan", "--profile", checkoutProfile)
	require.NoError(t, err)

	var plan map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &plan))
	assert.Equal(t, "checkout-api", plan["service"])
	assert.Equal(t, checkoutProfile, plan["profile_path"])
	assert.Len(t, plan["scenarios"], 3)
	assert.Contains(t, stdout, `"operator": "<="`)
}

func TestPlanCommand_YAMLFormat(t *testing.T) {
	stdout, _, err := run(t, "plan", "--profile", checkoutProfile, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "service: checkout-api")
	assert.Contains(t, stdout, "name: steady")
}

func TestPlanCommand_UnsupportedFormat(t *testing.T) {
	_, _, err := run(t, "plan", "--profile", checkoutProfile, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: xml")
}

func TestPlanCommand_OutFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plans", "checkout.json")

	stdout, _, err := run(t, "plan", "--profile", checkoutProfile, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Plan written to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))

	_, _, err = run(t, "validate-plan", out)
	require.NoError(t, err)
}

func TestPlanCommand_EvidenceLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "evidence.jsonl")

	stdout, _, err := run(t, "plan", "--profile", checkoutProfile, "--log", logPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Evidence logged to "+logPath)

	_, _, err = run(t, "plan", "--profile", checkoutProfile, "--log", logPath, "--metrics", failingMetrics)
	require.NoError(t, err)

	events, err := evidence.Read(logPath)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "checkout-api", events[0].Service)
	assert.Equal(t, []string{"steady", "burst", "soak"}, events[0].Scenarios)
	assert.False(t, events[0].Interpretation)
	assert.Equal(t, evidence.OutcomePlanGenerated, events[0].Outcome)

	assert.True(t, events[1].Interpretation)
	assert.Equal(t, evidence.OutcomeIssuesDetected, events[1].Outcome)
}

func TestPlanCommand_WithMetrics(t *testing.T) {
	stdout, _, err := run(t, "plan", "--profile", checkoutProfile, "--metrics", passingMetrics)
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- Metrics Interpretation ---")
	assert.Contains(t, stdout, "Status: PASS")

	stdout, _, err = run(t, "plan", "--profile", checkoutProfile, "--metrics", failingMetrics)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Status: FAIL")
}

func TestPlanCommand_UnreadableMetricsIsAWarning(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	stdout, stderr, err := run(t, "plan", "--profile", checkoutProfile, "--metrics", missing)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Metrics Interpretation")
	assert.Contains(t, stderr, "Warning: could not interpret metrics: metrics file not found")
}

func TestPlanCommand_Textfile(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "loadplanner.prom")

	_, _, err := run(t, "plan", "--profile", checkoutProfile, "--metrics", failingMetrics, "--textfile", textfile)
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `loadplanner_scenario_peak_rps{scenario="burst",service="checkout-api"} 600`)
	assert.Contains(t, string(data), `loadplanner_interpretation_status{service="checkout-api",status="fail"} 1`)
}

func TestPlanCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("service: \"\"\n"), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing profile flag", []string{"plan"}, "--profile is required"},
		{"missing file", []string{"plan", "--profile", filepath.Join(dir, "missing.yaml")}, "profile file not found"},
		{"invalid profile", []string{"plan", "--profile", invalid}, "profile validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stdout)
		})
	}
}

func TestInterpretCommand(t *testing.T) {
	stdout, _, err := run(t, "interpret", "--profile", checkoutProfile, "--metrics", failingMetrics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Status: FAIL\n"))
	assert.Contains(t, stdout, `"status": "fail"`)
	assert.Contains(t, stdout, `"risks": [`)
}

func TestInterpretCommand_Alias(t *testing.T) {
	stdout, _, err := run(t, "interpret-cmd", "--profile", checkoutProfile, "--metrics", passingMetrics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Status: PASS\n"))
}

func TestInterpretCommand_PartialMetricsWarn(t *testing.T) {
	stdout, stderr, err := run(t, "interpret", "--profile", checkoutProfile, "--metrics", partialMetrics)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: missing field: p90_ms")
	assert.Contains(t, stderr, "Warning: missing field: p99_ms")
	assert.Contains(t, stdout, "p99 latency not provided in metrics")
}

func TestInterpretCommand_MissingMetricsIsFatal(t *testing.T) {
	_, _, err := run(t, "interpret", "--profile", checkoutProfile, "--metrics", filepath.Join(t.TempDir(), "x.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics file not found")
}

func TestValidateCommand(t *testing.T) {
	stdout, _, err := run(t, "validate", "--profile", checkoutProfile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "profile OK: checkout-api")
	assert.Contains(t, stdout, "endpoints: 2 (1 critical)")
}

func TestValidatePlanCommand(t *testing.T) {
	dir := t.TempDir()
	yamlPlan := filepath.Join(dir, "plan.yaml")

	stdout, _, err := run(t, "plan", "--profile", checkoutProfile, "--format", "yaml", "--out", yamlPlan)
	require.NoError(t, err)
	require.Contains(t, stdout, "Plan written to")

	stdout, _, err = run(t, "validate-plan", yamlPlan)
	require.NoError(t, err)
	assert.Contains(t, stdout, "plan OK: "+yamlPlan)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"service": "x", "profile_path": "p", "scenarios": []}`), 0o644))
	_, _, err = run(t, "validate-plan", broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, _, err = run(t, "validate-plan")
	require.Error(t, err)
}

func TestEventsCommand(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "evidence.jsonl")

	stdout, _, err := run(t, "events", "--log", logPath)
	require.NoError(t, err)
	assert.Equal(t, "no events\n", stdout)

	_, _, err = run(t, "plan", "--profile", checkoutProfile, "--log", logPath)
	require.NoError(t, err)

	stdout, _, err = run(t, "events", "--log", logPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SERVICE")
	assert.Contains(t, stdout, "steady,burst,soak")

	stdout, _, err = run(t, "events", "--log", logPath, "--json", "--service", "other")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
}

func TestConfigFileSetsDefaults(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "evidence.jsonl")
	cfgPath := filepath.Join(dir, "loadplanner.yaml")
	cfg := "output:\n  format: yaml\nevidence:\n  path: " + logPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	stdout, _, err := run(t, "--config", cfgPath, "plan", "--profile", checkoutProfile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "service: checkout-api")
	assert.Contains(t, stdout, "Evidence logged to "+logPath)

	_, _, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "validate", "--profile", checkoutProfile)
	require.Error(t, err)
}
