// Package style resolves display attributes for compiled graphs.
//
// A [Config] bundles the category palette used to fill nodes and the default
// attribute blocks emitted for the graph, its nodes and its edges. Everything
// is ordered: the first palette key that matches a category wins, and
// attribute blocks are written in configured order so the compiled text is
// reproducible byte for byte.
//
// Configs are plain values. Start from [Default] (or [ForPlatform]) and
// override per call, or read a style file with [Load].
package style

import (
	"runtime"
	"slices"
	"strings"
)

// PaletteEntry maps a category substring to a fill color.
type PaletteEntry struct {
	Key   string
	Color string
}

// Palette is an ordered list of category colors.
type Palette []PaletteEntry

// ColorFor returns the color of the first entry whose key is a
// case-insensitive substring of category, or "" when nothing matches.
func (p Palette) ColorFor(category string) string {
	if category == "" {
		return ""
	}
	cat := strings.ToLower(category)
	for _, e := range p {
		if strings.Contains(cat, strings.ToLower(e.Key)) {
			return e.Color
		}
	}
	return ""
}

// Attr is a single key="value" attribute.
type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute list.
type Attrs []Attr

// Get returns the value of key and whether it is set.
func (a Attrs) Get(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// With returns a copy of a with key set to value. An existing key keeps its
// position; a new key is appended.
func (a Attrs) With(key, value string) Attrs {
	out := slices.Clone(a)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attr{Key: key, Value: value})
}

// Config is the complete styling input of the compiler.
type Config struct {
	Palette Palette
	Graph   Attrs
	Node    Attrs
	Edge    Attrs
}

// ColorFor resolves the fill color for a node category. A nil Config never
// matches.
func (c *Config) ColorFor(category string) string {
	if c == nil {
		return ""
	}
	return c.Palette.ColorFor(category)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	return &Config{
		Palette: slices.Clone(c.Palette),
		Graph:   slices.Clone(c.Graph),
		Node:    slices.Clone(c.Node),
		Edge:    slices.Clone(c.Edge),
	}
}

// defaultPalette is shared by both presets.
func defaultPalette() Palette {
	return Palette{
		{Key: "Hazard", Color: "#AECBFA"},
		{Key: "Exposure", Color: "#FFE9A9"},
		{Key: "Vulnerability", Color: "#B7F0C0"},
		{Key: "Impact", Color: "#FFFFFF"},
		{Key: "Risk", Color: "#FFCDD2"},
	}
}

// Default returns the stock configuration: left-to-right layout, boxed nodes
// and a CJK-capable font.
func Default() *Config {
	return &Config{
		Palette: defaultPalette(),
		Graph:   Attrs{{"rankdir", "LR"}},
		Node:    Attrs{{"shape", "box"}, {"fontname", "Noto Sans CJK TC"}},
		Edge:    Attrs{{"fontname", "Noto Sans CJK TC"}},
	}
}

// Windows returns the preset tuned for Windows hosts: top-to-bottom layout,
// high-DPI output and the Microsoft JhengHei font.
func Windows() *Config {
	return &Config{
		Palette: defaultPalette(),
		Graph:   Attrs{{"rankdir", "TB"}, {"fontsize", "12"}, {"dpi", "280"}},
		Node:    Attrs{{"shape", "box"}, {"fontname", "Microsoft JhengHei"}},
		Edge:    Attrs{{"fontname", "Microsoft JhengHei"}, {"arrowhead", "open"}},
	}
}

// ForPlatform returns the preset for goos. Pass runtime.GOOS for the host.
func ForPlatform(goos string) *Config {
	if goos == "windows" {
		return Windows()
	}
	return Default()
}

// Host returns the preset for the running platform.
func Host() *Config {
	return ForPlatform(runtime.GOOS)
}
