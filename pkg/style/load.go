package style

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/rfdraw/pkg/errors"
)

// Style file sections.
const (
	sectionPalette = "palette"
	sectionGraph   = "graph"
	sectionNode    = "node"
	sectionEdge    = "edge"
)

// sections holds the ordered key/value pairs read from a style file, keyed by
// section name. A section that is present but empty clears the base table.
type sections map[string][]Attr

// Load reads a style file and applies it on top of base (Default when nil).
//
// The file has up to four tables, each optional:
//
//	[palette]
//	Hazard = "#AECBFA"
//	Risk = "#FFCDD2"
//
//	[graph]
//	rankdir = "TB"
//	dpi = 280
//
//	[node]
//	shape = "box"
//
//	[edge]
//	arrowhead = "open"
//
// A table present in the file replaces the corresponding table of base,
// keeping the order in which keys appear in the file. TOML (.toml) and YAML
// (.yaml, .yml) are supported; YAML uses the same four mappings.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read style file %s", path)
	}

	var secs sections
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		secs, err = parseTOML(data)
	case ".yaml", ".yml":
		secs, err = parseYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported style file %q (want .toml, .yaml or .yml)", filepath.Base(path))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse style file %s", path)
	}

	if base == nil {
		base = Default()
	}
	return secs.apply(base.Clone())
}

func (s sections) apply(cfg *Config) (*Config, error) {
	for name, kvs := range s {
		switch name {
		case sectionPalette:
			p := make(Palette, 0, len(kvs))
			for _, kv := range kvs {
				p = append(p, PaletteEntry{Key: kv.Key, Color: kv.Value})
			}
			cfg.Palette = p
		case sectionGraph:
			cfg.Graph = Attrs(kvs)
		case sectionNode:
			cfg.Node = Attrs(kvs)
		case sectionEdge:
			cfg.Edge = Attrs(kvs)
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown style section %q", name)
		}
	}
	return cfg, nil
}

// parseTOML relies on MetaData.Keys, which lists keys in document order, to
// recover the ordering that decoding into maps loses.
func parseTOML(data []byte) (sections, error) {
	var raw map[string]any
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, err
	}

	secs := make(sections)
	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			if _, ok := raw[key[0]].(map[string]any); !ok {
				return nil, fmt.Errorf("top-level key %q must be a table", key[0])
			}
			if _, seen := secs[key[0]]; !seen {
				secs[key[0]] = []Attr{}
			}
		case 2:
			table := raw[key[0]].(map[string]any)
			value, err := scalar(table[key[1]])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", key[0], key[1], err)
			}
			secs[key[0]] = append(secs[key[0]], Attr{Key: key[1], Value: value})
		default:
			return nil, fmt.Errorf("%s: nested tables are not supported", key)
		}
	}
	return secs, nil
}

func scalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("value must be a string, number or boolean, got %T", v)
	}
}

func parseYAML(data []byte) (sections, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	secs := make(sections)
	if len(doc.Content) == 0 {
		return secs, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: document must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i].Value, root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: %q must be a mapping", body.Line, name)
		}
		kvs := make(Attrs, 0, len(body.Content)/2)
		for j := 0; j+1 < len(body.Content); j += 2 {
			k, v := body.Content[j], body.Content[j+1]
			if v.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: %s.%s must be a scalar", v.Line, name, k.Value)
			}
			// A repeated key overrides the earlier value in place.
			kvs = kvs.With(k.Value, v.Value)
		}
		secs[name] = kvs
	}
	return secs, nil
}
