package loadtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FairForge/loadplanner/internal/document"
)

// DefaultIndent is the indentation used when none is configured.
const DefaultIndent = 2

// MarshalPlan serializes a plan as JSON or YAML. The result has no trailing
// newline and is byte-identical for identical plans.
func MarshalPlan(plan *LoadTestPlan, format document.Format, indent int) ([]byte, error) {
	switch format {
	case document.FormatJSON:
		return marshalJSON(plan, indent)
	case document.FormatYAML:
		return marshalYAML(plan, indent)
	default:
		return nil, fmt.Errorf("loadtest: unsupported plan format %q", format)
	}
}

func marshalJSON(v any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("loadtest: encode plan: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalYAML(v any, indent int) ([]byte, error) {
	if indent < 2 {
		indent = DefaultIndent
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("loadtest: encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("loadtest: encode plan: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalInterpretation renders the status, checks, and risks of an
// interpretation as indented JSON.
func MarshalInterpretation(r *Interpretation, indent int) ([]byte, error) {
	return marshalJSON(r, indent)
}
