// Package dot compiles workbook records into Graphviz DOT text.
//
// # Overview
//
// [Compile] maps the Nodes and Edges record sets of a workbook, together with
// a [style.Config], to a directed graph description:
//
//	digraph G {
//	    graph [rankdir="LR"];
//	    node [shape="box" fontname="Noto Sans CJK TC"];
//	    edge [fontname="Noto Sans CJK TC"];
//	    A [label="Start" style="filled" fillcolor="#AECBFA"];
//	    B [label="End"];
//	    A -> B [penwidth="2"];
//	}
//
// The output mirrors input order and contains no timestamps, so compiling the
// same records twice yields identical bytes.
//
// # Record Rules
//
// Nodes whose id is empty or the spreadsheet placeholder "nan" are skipped,
// as are edges with such an endpoint. Labels default to the node id, and
// double quotes in labels are escaped. A node whose category resolves to a
// palette color is filled with it. Edge styles map to style="dashed" or
// penwidth="2"; anything else draws a plain edge.
//
// Duplicate node ids are emitted as separate declarations. Graphviz merges
// them, with later attributes overriding earlier ones.
//
// # Scope
//
// This package neither parses nor validates DOT and performs no layout. Ids
// are written as they appear in the workbook; quoting ids that are not valid
// DOT identifiers is the workbook author's responsibility.
//
// [style.Config]: github.com/matzehuels/rfdraw/pkg/style.Config
package dot
