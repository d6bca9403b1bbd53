// Package metrics reads observed performance summaries produced by an
// external load tool. Every field is optional; absence is reported as a
// warning rather than an error.
package metrics

// Summary is an observed metrics summary. A nil field was not provided.
type Summary struct {
	P50MS         *float64 `json:"p50_ms"`
	P90MS         *float64 `json:"p90_ms"`
	P95MS         *float64 `json:"p95_ms"`
	P99MS         *float64 `json:"p99_ms"`
	ErrorRate     *float64 `json:"error_rate"`
	ThroughputRPS *float64 `json:"throughput_rps"`
	CPUPercent    *float64 `json:"cpu_percent"`
	MemoryPercent *float64 `json:"memory_percent"`
	GCPauseMS     *float64 `json:"gc_pause_ms"`
}

// Field names in the order they are read and reported.
const (
	FieldP50MS         = "p50_ms"
	FieldP90MS         = "p90_ms"
	FieldP95MS         = "p95_ms"
	FieldP99MS         = "p99_ms"
	FieldErrorRate     = "error_rate"
	FieldThroughputRPS = "throughput_rps"
	FieldCPUPercent    = "cpu_percent"
	FieldMemoryPercent = "memory_percent"
	FieldGCPauseMS     = "gc_pause_ms"
)

// Fields lists every recognised field name in canonical order.
var Fields = []string{
	FieldP50MS, FieldP90MS, FieldP95MS, FieldP99MS,
	FieldErrorRate, FieldThroughputRPS,
	FieldCPUPercent, FieldMemoryPercent, FieldGCPauseMS,
}

func (s *Summary) slot(name string) **float64 {
	switch name {
	case FieldP50MS:
		return &s.P50MS
	case FieldP90MS:
		return &s.P90MS
	case FieldP95MS:
		return &s.P95MS
	case FieldP99MS:
		return &s.P99MS
	case FieldErrorRate:
		return &s.ErrorRate
	case FieldThroughputRPS:
		return &s.ThroughputRPS
	case FieldCPUPercent:
		return &s.CPUPercent
	case FieldMemoryPercent:
		return &s.MemoryPercent
	case FieldGCPauseMS:
		return &s.GCPauseMS
	}
	return nil
}

// Get returns the value of a named field, or nil when it is absent or the
// name is unknown.
func (s *Summary) Get(name string) *float64 {
	if p := s.slot(name); p != nil {
		return *p
	}
	return nil
}

// Observed returns the provided fields in canonical order.
func (s *Summary) Observed() []Observation {
	var out []Observation
	for _, name := range Fields {
		if v := s.Get(name); v != nil {
			out = append(out, Observation{Name: name, Value: *v})
		}
	}
	return out
}

// Observation is a single provided field.
type Observation struct {
	Name  string
	Value float64
}

// Float returns a pointer to v, for building summaries in code.
func Float(v float64) *float64 {
	return &v
}
