package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a single YAML document. An empty document yields nil.
func ParseYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return fromNode(&root)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		return fromMapping(n)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return normalizeScalar(v, n.Value), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

// fromMapping builds a *Map, applying "<<" merge keys. Keys set explicitly in
// the mapping win over merged ones, and earlier merge sources win over later.
func fromMapping(n *yaml.Node) (*Map, error) {
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if key := mappingKey(n.Content[i]); !isMergeKey(key) {
			explicit[key.Value] = true
		}
	}

	m := NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := mappingKey(n.Content[i])
		if isMergeKey(key) {
			if err := mergeInto(m, n.Content[i+1], explicit); err != nil {
				return nil, err
			}
			continue
		}
		v, err := fromNode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(key.Value, v)
	}
	return m, nil
}

func mappingKey(key *yaml.Node) *yaml.Node {
	if key.Kind == yaml.AliasNode {
		return key.Alias
	}
	return key
}

func isMergeKey(key *yaml.Node) bool {
	return key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge"
}

// mergeInto copies the entries of a merge source (a mapping, or a sequence of
// mappings) into m, skipping keys that are explicit or already present.
func mergeInto(m *Map, src *yaml.Node, explicit map[string]bool) error {
	if src.Kind == yaml.AliasNode {
		src = src.Alias
	}
	var sources []*yaml.Node
	switch src.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{src}
	case yaml.SequenceNode:
		for _, item := range src.Content {
			if item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: merge sequence must contain only mappings", item.Line)
			}
			sources = append(sources, item)
		}
	default:
		return fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", src.Line)
	}

	for _, node := range sources {
		merged, err := fromMapping(node)
		if err != nil {
			return err
		}
		for _, k := range merged.Keys() {
			if explicit[k] {
				continue
			}
			if _, present := m.Get(k); present {
				continue
			}
			v, _ := merged.Get(k)
			m.Set(k, v)
		}
	}
	return nil
}

func normalizeScalar(v any, raw string) any {
	switch t := v.(type) {
	case nil, string, bool, float64, int64:
		return t
	case int:
		return int64(t)
	case uint64:
		return float64(t)
	case time.Time:
		return raw
	default:
		return raw
	}
}

// ParseJSON parses exactly one JSON value. Object key order is preserved.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected %v after top-level value", tok)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			items := make([]any, 0)
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		// string, bool or nil
		return t, nil
	}
}
