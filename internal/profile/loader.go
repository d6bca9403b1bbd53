package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FairForge/loadplanner/internal/document"
)

// Load reads a YAML (.yaml, .yml) or JSON (.json) profile from disk and
// validates it. Every error returned is a *ValidationError.
func Load(path string) (*ServiceProfile, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &ValidationError{Message: fmt.Sprintf("profile file not found: %s", path)}
	}

	format := document.FormatFromPath(path)
	if format != document.FormatYAML && format != document.FormatJSON {
		return nil, &ValidationError{
			Message: fmt.Sprintf("unsupported file extension: %s (expected .yaml, .yml, or .json)",
				strings.ToLower(filepath.Ext(path))),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("failed to read %s", path), Err: err}
	}
	return decode(data, format, path)
}

// LoadBytes validates an in-memory profile document.
func LoadBytes(data []byte, format document.Format) (*ServiceProfile, error) {
	return decode(data, format, format.String()+" profile")
}

func decode(data []byte, format document.Format, source string) (*ServiceProfile, error) {
	var (
		raw any
		err error
	)
	switch format {
	case document.FormatYAML:
		raw, err = document.ParseYAML(data)
	case document.FormatJSON:
		raw, err = document.ParseJSON(data)
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("unsupported profile format: %s", format)}
	}
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("failed to parse %s", source), Err: err}
	}
	return FromDocument(raw)
}

// FromDocument validates an already parsed document. All field problems are
// collected before failing.
func FromDocument(raw any) (*ServiceProfile, error) {
	root, ok := document.AsMap(raw)
	if !ok {
		return nil, &ValidationError{Message: "profile must be a mapping/object at the top level"}
	}

	v := &validator{}
	p := v.profile(root)
	if len(v.problems) > 0 {
		return nil, &ValidationError{Problems: v.problems}
	}
	return p, nil
}
