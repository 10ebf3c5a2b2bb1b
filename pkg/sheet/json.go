package sheet

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/rfdraw/pkg/errors"
)

// cell accepts any JSON scalar. Strings are unquoted, numbers and booleans
// keep their literal text and null becomes "".
type cell string

func (c *cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = cell(s)
		return nil
	}
	*c = cell(data)
	return nil
}

type jsonNode struct {
	NodeID   cell `json:"NodeID"`
	Label    cell `json:"Label"`
	Category cell `json:"Category"`
}

type jsonEdge struct {
	FromNode cell `json:"FromNode"`
	ToNode   cell `json:"ToNode"`
	Style    cell `json:"Style"`
}

type jsonWorkbook struct {
	Nodes *[]jsonNode `json:"Nodes"`
	Edges *[]jsonEdge `json:"Edges"`
}

// ReadJSON decodes a JSON workbook from r.
//
// Both "Nodes" and "Edges" keys must be present; either may be an empty array.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Workbook, error) {
	var data jsonWorkbook
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSource, err, "decode workbook")
	}
	if data.Nodes == nil {
		return nil, errors.New(errors.ErrCodeDataSource, "workbook has no %q record set", NodesSheet)
	}
	if data.Edges == nil {
		return nil, errors.New(errors.ErrCodeDataSource, "workbook has no %q record set", EdgesSheet)
	}

	wb := &Workbook{
		Nodes: make([]NodeRecord, 0, len(*data.Nodes)),
		Edges: make([]EdgeRecord, 0, len(*data.Edges)),
	}
	for _, n := range *data.Nodes {
		wb.Nodes = append(wb.Nodes, NodeRecord{ID: string(n.NodeID), Label: string(n.Label), Category: string(n.Category)})
	}
	for _, e := range *data.Edges {
		wb.Edges = append(wb.Edges, EdgeRecord{From: string(e.FromNode), To: string(e.ToNode), Style: ParseEdgeStyle(string(e.Style))})
	}
	return wb, nil
}

// ImportJSON reads a JSON workbook file at path.
func ImportJSON(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSource, err, "open workbook %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
