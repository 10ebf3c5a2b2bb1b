package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/rfdraw/pkg/sheet"
	"github.com/matzehuels/rfdraw/pkg/style"
)

// AbsentMarker is the text an empty spreadsheet cell surfaces as.
const AbsentMarker = "nan"

const indent = "    "

// Graph is a compiled graph description.
type Graph struct {
	text string

	// Nodes and Edges count the declarations that were emitted.
	Nodes int
	Edges int

	// SkippedNodes and SkippedEdges count records dropped for missing ids.
	SkippedNodes int
	SkippedEdges int
}

// String returns the DOT text.
func (g Graph) String() string { return g.text }

// Bytes returns the DOT text as bytes.
func (g Graph) Bytes() []byte { return []byte(g.text) }

// IsAbsent reports whether a trimmed cell value means "no value".
func IsAbsent(s string) bool {
	return s == "" || strings.ToLower(s) == AbsentMarker
}

// Compile emits the DOT description of nodes and edges styled by cfg.
// A nil cfg emits no attribute blocks and no fill colors. Compile never fails.
func Compile(nodes []sheet.NodeRecord, edges []sheet.EdgeRecord, cfg *style.Config) Graph {
	var (
		buf bytes.Buffer
		g   Graph
	)
	if cfg == nil {
		cfg = &style.Config{}
	}

	buf.WriteString("digraph G {")
	writeDefaults(&buf, "graph", cfg.Graph)
	writeDefaults(&buf, "node", cfg.Node)
	writeDefaults(&buf, "edge", cfg.Edge)

	for _, n := range nodes {
		line, ok := nodeLine(n, cfg)
		if !ok {
			g.SkippedNodes++
			continue
		}
		buf.WriteString("\n" + line)
		g.Nodes++
	}

	for _, e := range edges {
		line, ok := edgeLine(e)
		if !ok {
			g.SkippedEdges++
			continue
		}
		buf.WriteString("\n" + line)
		g.Edges++
	}

	buf.WriteString("\n}")
	g.text = buf.String()
	return g
}

func writeDefaults(buf *bytes.Buffer, kind string, attrs style.Attrs) {
	if len(attrs) == 0 {
		return
	}
	fmt.Fprintf(buf, "\n%s%s [%s];", indent, kind, fmtAttrs(attrs))
}

func nodeLine(n sheet.NodeRecord, cfg *style.Config) (string, bool) {
	id := strings.TrimSpace(n.ID)
	if IsAbsent(id) {
		return "", false
	}

	label := n.Label
	if IsAbsent(strings.TrimSpace(label)) {
		label = id
	}

	attrs := style.Attrs{{Key: "label", Value: label}}
	if color := cfg.ColorFor(strings.TrimSpace(n.Category)); color != "" {
		attrs = append(attrs, style.Attr{Key: "style", Value: "filled"}, style.Attr{Key: "fillcolor", Value: color})
	}
	return fmt.Sprintf("%s%s [%s];", indent, id, fmtAttrs(attrs)), true
}

func edgeLine(e sheet.EdgeRecord) (string, bool) {
	from, to := strings.TrimSpace(e.From), strings.TrimSpace(e.To)
	if IsAbsent(from) || IsAbsent(to) {
		return "", false
	}

	var attrs style.Attrs
	switch e.Style {
	case sheet.EdgeStyleDashed:
		attrs = style.Attrs{{Key: "style", Value: "dashed"}}
	case sheet.EdgeStyleBold:
		attrs = style.Attrs{{Key: "penwidth", Value: "2"}}
	case sheet.EdgeStyleNone:
	default:
		// Values outside the enum draw a plain edge, like EdgeStyleNone.
	}

	if len(attrs) == 0 {
		return fmt.Sprintf("%s%s -> %s;", indent, from, to), true
	}
	return fmt.Sprintf("%s%s -> %s [%s];", indent, from, to, fmtAttrs(attrs)), true
}

// fmtAttrs renders attrs as space separated key="value" pairs.
func fmtAttrs(attrs style.Attrs) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = fmt.Sprintf(`%s="%s"`, a.Key, escape(a.Value))
	}
	return strings.Join(parts, " ")
}

// escape backslash-escapes double quotes.
func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
