package sheet

import "strings"

// Record set and column names.
const (
	NodesSheet = "Nodes"
	EdgesSheet = "Edges"

	ColNodeID   = "NodeID"
	ColLabel    = "Label"
	ColCategory = "Category"
	ColFromNode = "FromNode"
	ColToNode   = "ToNode"
	ColStyle    = "Style"
)

// NodeRecord is one row of the Nodes sheet.
type NodeRecord struct {
	ID       string
	Label    string
	Category string
}

// EdgeRecord is one row of the Edges sheet.
type EdgeRecord struct {
	From  string
	To    string
	Style EdgeStyle
}

// EdgeStyle is the line style requested for an edge.
type EdgeStyle int

const (
	// EdgeStyleNone draws the renderer's default line.
	EdgeStyleNone EdgeStyle = iota
	// EdgeStyleDashed draws a dashed line.
	EdgeStyleDashed
	// EdgeStyleBold draws a thicker line.
	EdgeStyleBold
)

// ParseEdgeStyle maps a Style cell to an EdgeStyle. Matching is exact after
// trimming surrounding whitespace.
func ParseEdgeStyle(s string) EdgeStyle {
	switch strings.TrimSpace(s) {
	case "dashed":
		return EdgeStyleDashed
	case "bold":
		return EdgeStyleBold
	default:
		// Unknown and empty values draw a plain edge.
		return EdgeStyleNone
	}
}

// String returns the cell value that parses to s.
func (s EdgeStyle) String() string {
	switch s {
	case EdgeStyleDashed:
		return "dashed"
	case EdgeStyleBold:
		return "bold"
	default:
		return ""
	}
}

// Workbook holds both record sets in row order.
type Workbook struct {
	Nodes []NodeRecord
	Edges []EdgeRecord
}
