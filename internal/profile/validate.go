package profile

import (
	"fmt"
	"math"

	"github.com/FairForge/loadplanner/internal/document"
)

// validator accumulates problems while building a profile. Each failed field
// is replaced with a safe default so later checks still run.
type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) profile(root *document.Map) *ServiceProfile {
	p := &ServiceProfile{
		Endpoints:    []Endpoint{},
		Dependencies: []string{},
	}

	service, _ := root.Get("service")
	if s, ok := service.(string); ok && s != "" {
		p.Service = s
	} else {
		v.addf("'service' is required and must be a non-empty string")
	}

	switch s := get(root, "summary").(type) {
	case nil:
	case string:
		p.Summary = s
	default:
		v.addf("'summary' must be a string")
	}

	if traffic, ok := document.AsMap(get(root, "traffic")); ok {
		p.Traffic = v.traffic(traffic)
	} else {
		v.addf("'traffic' is required and must be a mapping")
	}

	if slo, ok := document.AsMap(get(root, "slo")); ok {
		p.SLO = v.slo(slo)
	} else {
		v.addf("'slo' is required and must be a mapping")
	}

	p.Endpoints = v.endpoints(root.Get("endpoints"))
	p.Dependencies = v.dependencies(root.Get("dependencies"))
	p.Data = v.data(get(root, "data"))

	return p
}

func (v *validator) traffic(raw *document.Map) TrafficShape {
	t := TrafficShape{
		BaselineRPS: v.rate(raw, "baseline_rps"),
		PeakRPS:     v.rate(raw, "peak_rps"),
		BurstFactor: DefaultBurstFactor,
	}

	if b, present := raw.Get("burst_factor"); present {
		if f, isNum := finite(b); isNum && f > 0 {
			t.BurstFactor = f
		} else {
			v.addf("'traffic.burst_factor' must be a positive number")
		}
	}
	if float64(t.PeakRPS)*t.BurstFactor > MaxRPS {
		v.addf("'traffic.peak_rps' * 'traffic.burst_factor' must not exceed %d", MaxRPS)
		t.BurstFactor = DefaultBurstFactor
	}
	return t
}

// rate reads a required request rate, truncating fractional values.
func (v *validator) rate(raw *document.Map, key string) int {
	f, ok := finite(get(raw, key))
	if !ok {
		v.addf("'traffic.%s' is required and must be a number", key)
		return 0
	}
	if f < 0 {
		v.addf("'traffic.%s' must not be negative", key)
		return 0
	}
	if f > MaxRPS {
		v.addf("'traffic.%s' must not exceed %d", key, MaxRPS)
		return 0
	}
	return int(f)
}

func (v *validator) slo(raw *document.Map) SLO {
	s := SLO{
		LatencyMS: []Percentile{},
		ErrorRate: DefaultErrorRate,
	}

	if latency, present := raw.Get("latency_ms"); present {
		if m, ok := document.AsMap(latency); ok {
			for _, label := range m.Keys() {
				val, _ := m.Get(label)
				threshold, isNum := finite(val)
				if !isNum {
					v.addf("'slo.latency_ms.%s' must be a number", label)
					continue
				}
				if threshold > MaxLatencyMS {
					v.addf("'slo.latency_ms.%s' must not exceed %g", label, MaxLatencyMS)
					continue
				}
				_, written := val.(float64)
				s.LatencyMS = append(s.LatencyMS, Percentile{Label: label, ThresholdMS: threshold, Float: written})
			}
		} else {
			v.addf("'slo.latency_ms' must be a mapping")
		}
	}

	if rate, present := raw.Get("error_rate"); present {
		if f, ok := finite(rate); ok {
			s.ErrorRate = f
		} else {
			v.addf("'slo.error_rate' must be a number")
		}
	}
	return s
}

// endpoints and dependencies may be omitted, but an explicit null is rejected.
func (v *validator) endpoints(raw any, present bool) []Endpoint {
	endpoints := []Endpoint{}
	if !present {
		return endpoints
	}
	items, ok := document.AsList(raw)
	if !ok {
		v.addf("'endpoints' must be a list")
		return endpoints
	}

	for i, item := range items {
		m, ok := document.AsMap(item)
		if !ok {
			v.addf("endpoints[%d] must be a mapping", i)
			continue
		}

		ep := Endpoint{Method: DefaultMethod}
		switch path := get(m, "path").(type) {
		case string:
			ep.Path = path
		case nil:
		default:
			v.addf("endpoints[%d].path must be a string", i)
		}
		if ep.Path == "" {
			v.addf("endpoints[%d].path is required", i)
		}

		if method, present := m.Get("method"); present && method != nil {
			if s, ok := method.(string); ok {
				ep.Method = s
			} else {
				v.addf("endpoints[%d].method must be a string", i)
			}
		}
		if critical, present := m.Get("critical"); present && critical != nil {
			if b, ok := critical.(bool); ok {
				ep.Critical = b
			} else {
				v.addf("endpoints[%d].critical must be a boolean", i)
			}
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints
}

func (v *validator) dependencies(raw any, present bool) []string {
	deps := []string{}
	if !present {
		return deps
	}
	items, ok := document.AsList(raw)
	if !ok {
		v.addf("'dependencies' must be a list")
		return deps
	}
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			v.addf("dependencies[%d] must be a string", i)
			continue
		}
		deps = append(deps, s)
	}
	return deps
}

// data never fails on a missing or non-mapping block; it falls back to the
// zero DataConstraints.
func (v *validator) data(raw any) DataConstraints {
	var d DataConstraints
	m, ok := document.AsMap(raw)
	if !ok {
		return d
	}
	if prod, present := m.Get("uses_production_data"); present && prod != nil {
		if b, ok := prod.(bool); ok {
			d.UsesProductionData = b
		} else {
			v.addf("'data.uses_production_data' must be a boolean")
		}
	}
	switch notes := get(m, "notes").(type) {
	case nil:
	case string:
		d.Notes = notes
	default:
		v.addf("'data.notes' must be a string")
	}
	return d
}

// finite is document.AsNumber restricted to values other than NaN and ±Inf.
func finite(v any) (float64, bool) {
	f, ok := document.AsNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func get(m *document.Map, key string) any {
	val, _ := m.Get(key)
	return val
}
