package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FairForge/loadplanner/internal/document"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Fixtures(t *testing.T) {
	for _, name := range []string{"checkout-profile.yaml", "checkout-profile.json"} {
		t.Run(name, func(t *testing.T) {
			p, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, "checkout-api", p.Service)
			assert.Equal(t, 50, p.Traffic.BaselineRPS)
			assert.Equal(t, 200, p.Traffic.PeakRPS)
			assert.Equal(t, 3.0, p.Traffic.BurstFactor)

			p95, ok := p.SLO.Threshold("p95")
			require.True(t, ok)
			assert.Equal(t, 400.0, p95)
			p99, _ := p.SLO.Threshold("p99")
			assert.Equal(t, 800.0, p99)
			assert.Equal(t, 0.01, p.SLO.ErrorRate)

			require.Len(t, p.Endpoints, 2)
			assert.Equal(t, "/cart/submit", p.Endpoints[0].Path)
			assert.True(t, p.Endpoints[0].Critical)
			assert.Equal(t, "POST", p.Endpoints[0].Method)
			assert.Contains(t, p.Dependencies, "payments-service")
			assert.False(t, p.Data.UsesProductionData)
			assert.Len(t, p.CriticalEndpoints(), 1)
		})
	}
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/path.yaml")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(writeFile(t, "profile.txt", "some text"))
		require.Error(t, err)
		assert.Equal(t, "unsupported file extension: .txt (expected .yaml, .yml, or .json)", err.Error())
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.json", "{bad json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.NotNil(t, errors.Unwrap(err))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", ":\n  :\n    - :\n  invalid: ["))
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("non-mapping top level", func(t *testing.T) {
		_, err := Load(writeFile(t, "list.json", "[1, 2, 3]"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mapping")
	})

	t.Run("empty yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "empty.yml", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "top level")
	})
}

func TestLoadBytes_RequiredSections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing service",
			doc:  `{"summary": "test", "traffic": {"baseline_rps": 10, "peak_rps": 50}, "slo": {"latency_ms": {"p95": 200}}}`,
			want: "'service' is required and must be a non-empty string",
		},
		{
			name: "empty service",
			doc:  `{"service": "", "traffic": {"baseline_rps": 10, "peak_rps": 50}, "slo": {}}`,
			want: "'service' is required and must be a non-empty string",
		},
		{
			name: "missing traffic",
			doc:  `{"service": "svc", "slo": {"latency_ms": {"p95": 200}}}`,
			want: "'traffic' is required and must be a mapping",
		},
		{
			name: "missing slo",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 10, "peak_rps": 50}}`,
			want: "'slo' is required and must be a mapping",
		},
		{
			name: "boolean rps",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": true, "peak_rps": 50}, "slo": {}}`,
			want: "'traffic.baseline_rps' is required and must be a number",
		},
		{
			name: "string peak",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 10, "peak_rps": "lots"}, "slo": {}}`,
			want: "'traffic.peak_rps' is required and must be a number",
		},
		{
			name: "negative rps",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": -5, "peak_rps": 50}, "slo": {}}`,
			want: "'traffic.baseline_rps' must not be negative",
		},
		{
			name: "zero burst factor",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2, "burst_factor": 0}, "slo": {}}`,
			want: "'traffic.burst_factor' must be a positive number",
		},
		{
			name: "non-numeric latency",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {"latency_ms": {"p95": "fast"}}}`,
			want: "'slo.latency_ms.p95' must be a number",
		},
		{
			name: "latency list",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {"latency_ms": [400]}}`,
			want: "'slo.latency_ms' must be a mapping",
		},
		{
			name: "string error rate",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {"error_rate": "1%"}}`,
			want: "'slo.error_rate' must be a number",
		},
		{
			name: "endpoints mapping",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {}, "endpoints": {"path": "/x"}}`,
			want: "'endpoints' must be a list",
		},
		{
			name: "endpoint scalar",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {}, "endpoints": ["/x"]}`,
			want: "endpoints[0] must be a mapping",
		},
		{
			name: "endpoint without path",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {}, "endpoints": [{"path": "/a"}, {"method": "GET"}]}`,
			want: "endpoints[1].path is required",
		},
		{
			name: "dependencies string",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {}, "dependencies": "db"}`,
			want: "'dependencies' must be a list",
		},
		{
			name: "dependency number",
			doc:  `{"service": "svc", "traffic": {"baseline_rps": 1, "peak_rps": 2}, "slo": {}, "dependencies": ["db", 7]}`,
			want: "dependencies[1] must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.doc), document.FormatJSON)
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Problems, tt.want)
		})
	}
}

func TestLoadBytes_NumericBounds(t *testing.T) {
	const base = "service: svc\nendpoints: []\n"
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "oversized baseline",
			doc:  base + "traffic: {baseline_rps: 1e20, peak_rps: 10}\nslo: {}\n",
			want: "'traffic.baseline_rps' must not exceed 2147483647",
		},
		{
			name: "infinite peak",
			doc:  base + "traffic: {baseline_rps: 1, peak_rps: .inf}\nslo: {}\n",
			want: "'traffic.peak_rps' is required and must be a number",
		},
		{
			name: "nan baseline",
			doc:  base + "traffic: {baseline_rps: .nan, peak_rps: 10}\nslo: {}\n",
			want: "'traffic.baseline_rps' is required and must be a number",
		},
		{
			name: "infinite burst factor",
			doc:  base + "traffic: {baseline_rps: 1, peak_rps: 10, burst_factor: .inf}\nslo: {}\n",
			want: "'traffic.burst_factor' must be a positive number",
		},
		{
			name: "burst target overflows",
			doc:  base + "traffic: {baseline_rps: 1, peak_rps: 2000000000, burst_factor: 2}\nslo: {}\n",
			want: "'traffic.peak_rps' * 'traffic.burst_factor' must not exceed 2147483647",
		},
		{
			name: "nan latency threshold",
			doc:  base + "traffic: {baseline_rps: 1, peak_rps: 10}\nslo: {latency_ms: {p95: .nan}}\n",
			want: "'slo.latency_ms.p95' must be a number",
		},
		{
			name: "oversized latency threshold",
			doc:  base + "traffic: {baseline_rps: 1, peak_rps: 10}\nslo: {latency_ms: {p99: 1e300}}\n",
			want: "'slo.latency_ms.p99' must not exceed 3.4028234663852886e+38",
		},
		{
			name: "infinite error rate",
			doc:  base + "traffic: {baseline_rps: 1, peak_rps: 10}\nslo: {error_rate: -.inf}\n",
			want: "'slo.error_rate' must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.doc), document.FormatYAML)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Problems, tt.want)
		})
	}

	t.Run("largest accepted rates", func(t *testing.T) {
		doc := base + "traffic: {baseline_rps: 1000, peak_rps: 1000000, burst_factor: 2000}\nslo: {}\n"
		p, err := LoadBytes([]byte(doc), document.FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, 1000000, p.Traffic.PeakRPS)
		assert.Equal(t, 2000.0, p.Traffic.BurstFactor)
	})
}

func TestLoadBytes_ExplicitNulls(t *testing.T) {
	const base = "service: svc\ntraffic: {baseline_rps: 1, peak_rps: 2}\n"
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"endpoints", base + "slo: {}\nendpoints: null\n", "'endpoints' must be a list"},
		{"dependencies", base + "slo: {}\ndependencies: ~\n", "'dependencies' must be a list"},
		{"latency_ms", base + "slo: {latency_ms: null}\n", "'slo.latency_ms' must be a mapping"},
		{"error_rate", base + "slo: {error_rate: null}\n", "'slo.error_rate' must be a number"},
		{"burst_factor", "service: svc\ntraffic: {baseline_rps: 1, peak_rps: 2, burst_factor: null}\nslo: {}\n",
			"'traffic.burst_factor' must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.doc), document.FormatYAML)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, []string{tt.want}, ve.Problems)
		})
	}

	t.Run("null data and summary fall back to defaults", func(t *testing.T) {
		p, err := LoadBytes([]byte(base+"slo: {}\nsummary: null\ndata: null\n"), document.FormatYAML)
		require.NoError(t, err)
		assert.Empty(t, p.Summary)
		assert.Equal(t, DataConstraints{}, p.Data)
	})
}

func TestLoadBytes_MergeKeys(t *testing.T) {
	doc := `
service: svc
defaults: &traffic
  baseline_rps: 50
  peak_rps: 200
traffic:
  <<: *traffic
  burst_factor: 2
slo:
  latency_ms: {p95: 400}
`
	p, err := LoadBytes([]byte(doc), document.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, TrafficShape{BaselineRPS: 50, PeakRPS: 200, BurstFactor: 2}, p.Traffic)
}

func TestLoadBytes_CollectsAllProblems(t *testing.T) {
	doc := `
summary: 42
traffic:
  baseline_rps: fast
  peak_rps: 100
slo:
  error_rate: high
endpoints:
  - method: POST
`
	_, err := LoadBytes([]byte(doc), document.FormatYAML)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{
		"'service' is required and must be a non-empty string",
		"'summary' must be a string",
		"'traffic.baseline_rps' is required and must be a number",
		"'slo.error_rate' must be a number",
		"endpoints[0].path is required",
	}, ve.Problems)

	assert.Equal(t, "profile validation failed:\n"+
		"  - 'service' is required and must be a non-empty string\n"+
		"  - 'summary' must be a string\n"+
		"  - 'traffic.baseline_rps' is required and must be a number\n"+
		"  - 'slo.error_rate' must be a number\n"+
		"  - endpoints[0].path is required", err.Error())
}

func TestLoadBytes_Defaults(t *testing.T) {
	doc := `{
		"service": "minimal-svc",
		"summary": "",
		"traffic": {"baseline_rps": 10, "peak_rps": 100},
		"slo": {"latency_ms": {"p95": 500}}
	}`
	p, err := LoadBytes([]byte(doc), document.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "minimal-svc", p.Service)
	assert.Equal(t, DefaultBurstFactor, p.Traffic.BurstFactor)
	assert.Equal(t, DefaultErrorRate, p.SLO.ErrorRate)
	assert.Empty(t, p.Endpoints)
	assert.NotNil(t, p.Endpoints)
	assert.Empty(t, p.Dependencies)
	assert.False(t, p.Data.UsesProductionData)
	assert.Empty(t, p.Data.Notes)
}

func TestLoadBytes_Normalization(t *testing.T) {
	doc := `
service: svc
traffic:
  baseline_rps: 10.9
  peak_rps: 5
slo:
  latency_ms:
    p99: 900
    p50: 120.5
    p95: 400
endpoints:
  - path: /health
  - path: /orders
    method: POST
    critical: true
data: not-a-mapping
`
	p, err := LoadBytes([]byte(doc), document.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 10, p.Traffic.BaselineRPS, "fractional rps is truncated")
	assert.Equal(t, 5, p.Traffic.PeakRPS, "peak below baseline is accepted")
	assert.Equal(t, []Percentile{
		{Label: "p99", ThresholdMS: 900},
		{Label: "p50", ThresholdMS: 120.5, Float: true},
		{Label: "p95", ThresholdMS: 400},
	}, p.SLO.LatencyMS)

	require.Len(t, p.Endpoints, 2)
	assert.Equal(t, Endpoint{Path: "/health", Method: DefaultMethod}, p.Endpoints[0])
	assert.Equal(t, Endpoint{Path: "/orders", Method: "POST", Critical: true}, p.Endpoints[1])
	assert.Empty(t, p.Dependencies)
	assert.Equal(t, DataConstraints{}, p.Data)
}

func TestSLOThreshold(t *testing.T) {
	slo := SLO{LatencyMS: []Percentile{{Label: "p95", ThresholdMS: 400}}}

	v, ok := slo.Threshold("p95")
	assert.True(t, ok)
	assert.Equal(t, 400.0, v)

	_, ok = slo.Threshold("p99")
	assert.False(t, ok)
}

func TestPercentileFormatThreshold(t *testing.T) {
	doc := `{
		"service": "svc",
		"traffic": {"baseline_rps": 1, "peak_rps": 2},
		"slo": {"latency_ms": {"p50": 400, "p95": 400.0, "p99": 120.5}}
	}`
	p, err := LoadBytes([]byte(doc), document.FormatJSON)
	require.NoError(t, err)

	var got []string
	for _, pct := range p.SLO.LatencyMS {
		got = append(got, pct.FormatThreshold())
	}
	assert.Equal(t, []string{"400", "400.0", "120.5"}, got)

	pct, ok := p.SLO.Percentile("p95")
	require.True(t, ok)
	assert.True(t, pct.Float)
	_, ok = p.SLO.Percentile("p90")
	assert.False(t, ok)
}
