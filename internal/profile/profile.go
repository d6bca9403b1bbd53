// Package profile loads and validates service profiles: the declarative
// description of a service's expected traffic and its latency and error-rate
// objectives.
package profile

import (
	"math"
	"strconv"
	"strings"
)

// Defaults applied when a profile omits optional fields.
const (
	DefaultBurstFactor = 3.0
	DefaultErrorRate   = 0.01
	DefaultMethod      = "GET"
)

// Upper bounds on numeric profile fields. MaxRPS also bounds the burst target,
// peak_rps * burst_factor.
const (
	MaxRPS       = math.MaxInt32
	MaxLatencyMS = math.MaxFloat32
)

// ServiceProfile is a validated service description.
type ServiceProfile struct {
	Service      string          `json:"service"`
	Summary      string          `json:"summary"`
	Traffic      TrafficShape    `json:"traffic"`
	SLO          SLO             `json:"slo"`
	Endpoints    []Endpoint      `json:"endpoints"`
	Dependencies []string        `json:"dependencies"`
	Data         DataConstraints `json:"data"`
}

// TrafficShape describes expected request rates. Peak is not required to be
// above baseline.
type TrafficShape struct {
	BaselineRPS int     `json:"baseline_rps"`
	PeakRPS     int     `json:"peak_rps"`
	BurstFactor float64 `json:"burst_factor"`
}

// Percentile is one latency objective, e.g. {"p95", 400}.
type Percentile struct {
	Label       string  `json:"label"`
	ThresholdMS float64 `json:"threshold_ms"`
	// Float records that the threshold was written with a fraction (400.0).
	Float       bool    `json:"-"`
}

// FormatThreshold renders the threshold as it was written: 400, 400.0 or 120.5.
func (p Percentile) FormatThreshold() string {
	s := strconv.FormatFloat(p.ThresholdMS, 'f', -1, 64)
	if p.Float && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SLO holds the service level objectives. LatencyMS keeps the order the
// percentiles were declared in.
type SLO struct {
	LatencyMS []Percentile `json:"latency_ms"`
	ErrorRate float64      `json:"error_rate"`
}

// Percentile looks up the latency objective for a percentile label.
func (s SLO) Percentile(label string) (Percentile, bool) {
	for _, p := range s.LatencyMS {
		if p.Label == label {
			return p, true
		}
	}
	return Percentile{}, false
}

// Threshold looks up the latency threshold for a percentile label.
func (s SLO) Threshold(label string) (float64, bool) {
	p, ok := s.Percentile(label)
	return p.ThresholdMS, ok
}

// Endpoint is an HTTP route the service exposes.
type Endpoint struct {
	Path     string `json:"path"`
	Method   string `json:"method"`
	Critical bool   `json:"critical"`
}

// DataConstraints records how test data must be handled.
type DataConstraints struct {
	UsesProductionData bool   `json:"uses_production_data"`
	Notes              string `json:"notes"`
}

// CriticalEndpoints returns the endpoints flagged as critical, in order.
func (p *ServiceProfile) CriticalEndpoints() []Endpoint {
	var out []Endpoint
	for _, ep := range p.Endpoints {
		if ep.Critical {
			out = append(out, ep)
		}
	}
	return out
}
