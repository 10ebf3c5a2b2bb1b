package sheet

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/rfdraw/pkg/errors"
)

// Opener loads a workbook from a file path.
type Opener interface {
	Open(path string) (*Workbook, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (*Workbook, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (*Workbook, error) { return f(path) }

// DefaultOpener dispatches on the file extension, see [Open].
var DefaultOpener Opener = OpenerFunc(Open)

// Extensions lists the supported input extensions.
var Extensions = []string{".xlsx", ".xlsm", ".json"}

// Open reads the Nodes and Edges record sets from path.
func Open(path string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".json":
		return ImportJSON(path)
	default:
		return nil, errors.New(errors.ErrCodeDataSource, "unsupported workbook type %q (want .xlsx, .xlsm or .json)", filepath.Ext(path))
	}
}

// header maps column names of a header row to their indices.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		name = strings.TrimSpace(name)
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

// cell returns the value of column name in row, or "" when the column is
// missing or the row is short.
func (h header) cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func nodesFromRows(rows [][]string) []NodeRecord {
	if len(rows) == 0 {
		return nil
	}
	h := newHeader(rows[0])
	nodes := make([]NodeRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		nodes = append(nodes, NodeRecord{
			ID:       h.cell(row, ColNodeID),
			Label:    h.cell(row, ColLabel),
			Category: h.cell(row, ColCategory),
		})
	}
	return nodes
}

func edgesFromRows(rows [][]string) []EdgeRecord {
	if len(rows) == 0 {
		return nil
	}
	h := newHeader(rows[0])
	edges := make([]EdgeRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		edges = append(edges, EdgeRecord{
			From:  h.cell(row, ColFromNode),
			To:    h.cell(row, ColToNode),
			Style: ParseEdgeStyle(h.cell(row, ColStyle)),
		})
	}
	return edges
}
