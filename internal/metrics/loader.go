package metrics

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FairForge/loadplanner/internal/document"
)

// ParseError is returned when a metrics file cannot be used at all.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads a JSON or CSV metrics summary. Field-level problems are
// returned as warnings in canonical field order; only structural problems
// produce an error.
func Load(path string) (*Summary, []string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, nil, &ParseError{Message: fmt.Sprintf("metrics file not found: %s", path)}
	}

	format := document.FormatFromPath(path)
	if format != document.FormatJSON && format != document.FormatCSV {
		return nil, nil, &ParseError{
			Message: fmt.Sprintf("unsupported metrics format: %s (expected .json or .csv)",
				strings.ToLower(filepath.Ext(path))),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &ParseError{Message: "failed to read metrics file", Err: err}
	}
	return LoadBytes(data, format)
}

// LoadBytes parses an in-memory metrics summary.
func LoadBytes(data []byte, format document.Format) (*Summary, []string, error) {
	switch format {
	case document.FormatJSON:
		return loadJSON(data)
	case document.FormatCSV:
		return loadCSV(data)
	default:
		return nil, nil, &ParseError{Message: fmt.Sprintf("unsupported metrics format: %s", format)}
	}
}

func loadJSON(data []byte) (*Summary, []string, error) {
	raw, err := document.ParseJSON(data)
	if err != nil {
		return nil, nil, &ParseError{Message: "failed to parse JSON", Err: err}
	}
	m, ok := document.AsMap(raw)
	if !ok {
		return nil, nil, &ParseError{Message: "metrics JSON must be an object at top level"}
	}

	values := make(map[string]any, len(Fields))
	for _, name := range Fields {
		if v, present := m.Get(name); present {
			values[name] = v
		}
	}
	s, warnings := fromValues(values)
	return s, warnings, nil
}

// loadCSV reads the first data row. Values that do not parse as numbers are
// dropped, so they surface as missing fields.
func loadCSV(data []byte) (*Summary, []string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &ParseError{Message: "CSV file has no data rows"}
	}
	if err != nil {
		return nil, nil, &ParseError{Message: "failed to parse CSV", Err: err}
	}

	row, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &ParseError{Message: "CSV file has no data rows"}
	}
	if err != nil {
		return nil, nil, &ParseError{Message: "failed to parse CSV", Err: err}
	}

	values := make(map[string]any, len(Fields))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i >= len(row) || !isField(name) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			continue
		}
		values[name] = f
	}
	s, warnings := fromValues(values)
	return s, warnings, nil
}

func fromValues(values map[string]any) (*Summary, []string) {
	s := &Summary{}
	var warnings []string
	for _, name := range Fields {
		v := values[name]
		if v == nil {
			warnings = append(warnings, "missing field: "+name)
			continue
		}
		f, ok := coerce(v)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("non-numeric value for %s: %s", name, document.Repr(v)))
			continue
		}
		*s.slot(name) = &f
	}
	return s, warnings
}

// coerce accepts numbers and numeric strings. Booleans are rejected.
func coerce(v any) (float64, bool) {
	if f, ok := document.AsNumber(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

func isField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
