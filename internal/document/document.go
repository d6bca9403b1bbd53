// internal/document/document.go

// Package document turns YAML and JSON text into a generic, order-preserving
// tree of values that the profile and metrics loaders validate by hand.
//
// Values produced by the parsers are always one of:
//
//	*Map, []any, string, int64, float64, bool, nil
package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies how a document is encoded.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// FormatFromPath selects a format from the file extension (case-insensitive).
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// Map is a string-keyed mapping that remembers the order keys were first seen.
// A repeated key keeps its original position and takes the later value.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores v under key.
func (m *Map) Set(key string, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in document order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %s", k, Repr(m.values[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

// AsMap reports whether v is a mapping.
func AsMap(v any) (*Map, bool) {
	m, ok := v.(*Map)
	return m, ok && m != nil
}

// AsList reports whether v is a sequence.
func AsList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// AsNumber reports v as a float64 when it is an integer or float scalar.
// Booleans are never numbers.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Repr renders a value for use in user-facing messages.
func Repr(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Repr(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}
