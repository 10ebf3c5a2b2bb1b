package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/rfdraw/pkg/sheet"
	"github.com/matzehuels/rfdraw/pkg/style"
)

func TestCompileEndToEndShape(t *testing.T) {
	nodes := []sheet.NodeRecord{
		{ID: "A", Label: "Start", Category: "Hazard"},
		{ID: "B", Label: "End", Category: ""},
	}
	edges := []sheet.EdgeRecord{{From: "A", To: "B", Style: sheet.EdgeStyleBold}}

	g := Compile(nodes, edges, style.Default())

	want := strings.Join([]string{
		`digraph G {`,
		`    graph [rankdir="LR"];`,
		`    node [shape="box" fontname="Noto Sans CJK TC"];`,
		`    edge [fontname="Noto Sans CJK TC"];`,
		`    A [label="Start" style="filled" fillcolor="#AECBFA"];`,
		`    B [label="End"];`,
		`    A -> B [penwidth="2"];`,
		`}`,
	}, "\n")

	if g.String() != want {
		t.Errorf("Compile() mismatch\ngot:\n%s\nwant:\n%s", g.String(), want)
	}
	if g.Nodes != 2 || g.Edges != 1 {
		t.Errorf("counts = %d nodes, %d edges; want 2, 1", g.Nodes, g.Edges)
	}
	if string(g.Bytes()) != g.String() {
		t.Error("Bytes() and String() disagree")
	}
}

func TestCompileNodeRules(t *testing.T) {
	tests := []struct {
		name     string
		node     sheet.NodeRecord
		wantLine string // empty means the record must be skipped
	}{
		{"plain", sheet.NodeRecord{ID: "n1", Label: "One"}, `    n1 [label="One"];`},
		{"trimmed id", sheet.NodeRecord{ID: "  n1 ", Label: "One"}, `    n1 [label="One"];`},
		{"label defaults to id", sheet.NodeRecord{ID: "n1"}, `    n1 [label="n1"];`},
		{"absent label defaults to id", sheet.NodeRecord{ID: "n1", Label: "nan"}, `    n1 [label="n1"];`},
		{"label keeps spacing", sheet.NodeRecord{ID: "n1", Label: " a b "}, `    n1 [label=" a b "];`},
		{"quote escaped", sheet.NodeRecord{ID: "n1", Label: `say "hi"`}, `    n1 [label="say \"hi\""];`},
		{"filled", sheet.NodeRecord{ID: "n1", Label: "x", Category: " risk "}, `    n1 [label="x" style="filled" fillcolor="#FFCDD2"];`},
		{"unknown category", sheet.NodeRecord{ID: "n1", Label: "x", Category: "Control"}, `    n1 [label="x"];`},
		{"id case kept", sheet.NodeRecord{ID: "NaNa", Label: "x"}, `    NaNa [label="x"];`},
		{"empty id", sheet.NodeRecord{ID: "", Label: "x"}, ""},
		{"blank id", sheet.NodeRecord{ID: "   ", Label: "x"}, ""},
		{"absent id", sheet.NodeRecord{ID: "nan", Label: "x"}, ""},
		{"absent id upper", sheet.NodeRecord{ID: " NaN ", Label: "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Compile([]sheet.NodeRecord{tt.node}, nil, &style.Config{Palette: style.Default().Palette})
			lines := strings.Split(g.String(), "\n")

			if tt.wantLine == "" {
				if len(lines) != 2 || g.Nodes != 0 || g.SkippedNodes != 1 {
					t.Errorf("record should be skipped, got:\n%s", g.String())
				}
				return
			}
			if len(lines) != 3 || lines[1] != tt.wantLine {
				t.Errorf("got:\n%s\nwant line:\n%s", g.String(), tt.wantLine)
			}
		})
	}
}

func TestCompileEdgeRules(t *testing.T) {
	tests := []struct {
		name     string
		edge     sheet.EdgeRecord
		wantLine string
	}{
		{"plain", sheet.EdgeRecord{From: "a", To: "b"}, `    a -> b;`},
		{"dashed", sheet.EdgeRecord{From: "a", To: "b", Style: sheet.EdgeStyleDashed}, `    a -> b [style="dashed"];`},
		{"bold", sheet.EdgeRecord{From: "a", To: "b", Style: sheet.EdgeStyleBold}, `    a -> b [penwidth="2"];`},
		{"out of range style", sheet.EdgeRecord{From: "a", To: "b", Style: sheet.EdgeStyle(42)}, `    a -> b;`},
		{"trimmed", sheet.EdgeRecord{From: " a", To: "b "}, `    a -> b;`},
		{"undeclared endpoints allowed", sheet.EdgeRecord{From: "x", To: "y"}, `    x -> y;`},
		{"empty from", sheet.EdgeRecord{From: "", To: "b"}, ""},
		{"empty to", sheet.EdgeRecord{From: "a", To: " "}, ""},
		{"absent from", sheet.EdgeRecord{From: "nan", To: "b"}, ""},
		{"absent to", sheet.EdgeRecord{From: "a", To: "NAN"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Compile(nil, []sheet.EdgeRecord{tt.edge}, nil)
			lines := strings.Split(g.String(), "\n")

			if tt.wantLine == "" {
				if len(lines) != 2 || g.Edges != 0 || g.SkippedEdges != 1 {
					t.Errorf("record should be skipped, got:\n%s", g.String())
				}
				return
			}
			if len(lines) != 3 || lines[1] != tt.wantLine {
				t.Errorf("got:\n%s\nwant line:\n%s", g.String(), tt.wantLine)
			}
		})
	}
}

func TestCompileEdgeStyleFromCells(t *testing.T) {
	for _, cell := range []string{"", "dotted", "BOLD", "nan", "solid"} {
		e := sheet.EdgeRecord{From: "a", To: "b", Style: sheet.ParseEdgeStyle(cell)}
		out := Compile(nil, []sheet.EdgeRecord{e}, nil).String()
		if strings.Contains(out, `style="dashed"`) || strings.Contains(out, "penwidth") {
			t.Errorf("style cell %q should not add attributes:\n%s", cell, out)
		}
	}
}

func TestCompileOneDeclarationPerValidNode(t *testing.T) {
	nodes := []sheet.NodeRecord{
		{ID: "alpha"}, {ID: "nan"}, {ID: "beta"}, {ID: ""}, {ID: "gamma"},
	}
	out := Compile(nodes, nil, style.Default()).String()

	for _, id := range []string{"alpha", "beta", "gamma"} {
		if n := strings.Count(out, "\n    "+id+" ["); n != 1 {
			t.Errorf("node %q declared %d times, want 1", id, n)
		}
	}
	if strings.Contains(out, "nan [") {
		t.Error("absent-marker id should not be declared")
	}
}

func TestCompilePreservesInputOrder(t *testing.T) {
	nodes := []sheet.NodeRecord{{ID: "z"}, {ID: "a"}, {ID: "m"}}
	edges := []sheet.EdgeRecord{{From: "z", To: "a"}, {From: "a", To: "m"}}

	out := Compile(nodes, edges, nil).String()
	order := []string{"    z [", "    a [", "    m [", "    z -> a", "    a -> m"}
	last := -1
	for _, s := range order {
		i := strings.Index(out, s)
		if i <= last {
			t.Fatalf("%q out of order in:\n%s", s, out)
		}
		last = i
	}
}

func TestCompileDuplicateIDsCoexist(t *testing.T) {
	nodes := []sheet.NodeRecord{{ID: "A", Label: "first"}, {ID: "A", Label: "second"}}
	g := Compile(nodes, nil, nil)
	if g.Nodes != 2 {
		t.Errorf("Nodes = %d, want 2", g.Nodes)
	}
	out := g.String()
	if !strings.Contains(out, `A [label="first"]`) || !strings.Contains(out, `A [label="second"]`) {
		t.Errorf("both declarations should be emitted:\n%s", out)
	}
}

func TestCompileDefaultBlocksOnlyWhenSet(t *testing.T) {
	cfg := &style.Config{Node: style.Attrs{{Key: "shape", Value: "ellipse"}}}
	out := Compile(nil, nil, cfg).String()

	want := "digraph G {\n    node [shape=\"ellipse\"];\n}"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}

	if out := Compile(nil, nil, nil).String(); out != "digraph G {\n}" {
		t.Errorf("empty compile = %q", out)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	nodes := []sheet.NodeRecord{
		{ID: "A", Label: "Start", Category: "Hazard"},
		{ID: "B", Label: `q"uote`, Category: "Exposure"},
		{ID: "C", Category: "Vulnerability"},
	}
	edges := []sheet.EdgeRecord{
		{From: "A", To: "B", Style: sheet.EdgeStyleDashed},
		{From: "B", To: "C", Style: sheet.EdgeStyleBold},
		{From: "C", To: "A"},
	}
	cfg := style.Windows()

	first := Compile(nodes, edges, cfg).String()
	for i := 0; i < 10; i++ {
		if got := Compile(nodes, edges, cfg).String(); got != first {
			t.Fatalf("compile %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}

func TestIsAbsent(t *testing.T) {
	for _, s := range []string{"", "nan", "NaN", "NAN"} {
		if !IsAbsent(s) {
			t.Errorf("IsAbsent(%q) = false", s)
		}
	}
	for _, s := range []string{"n", "nana", "0", " "} {
		if IsAbsent(s) {
			t.Errorf("IsAbsent(%q) = true", s)
		}
	}
}
