package sheet

import (
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/rfdraw/pkg/errors"
)

// ReadXLSX reads the Nodes and Edges sheets of an Excel workbook.
//
// The first row of each sheet is the header. Rows after it become records in
// sheet order; fully empty rows are kept so that the caller sees exactly what
// the sheet holds (the compiler skips them because their ids are empty).
func ReadXLSX(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSource, err, "open workbook %s", path)
	}
	defer f.Close()

	nodeRows, err := sheetRows(f, NodesSheet)
	if err != nil {
		return nil, err
	}
	edgeRows, err := sheetRows(f, EdgesSheet)
	if err != nil {
		return nil, err
	}

	return &Workbook{
		Nodes: nodesFromRows(nodeRows),
		Edges: edgesFromRows(edgeRows),
	}, nil
}

func sheetRows(f *excelize.File, name string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, errors.New(errors.ErrCodeDataSource, "workbook %s has no %q sheet", f.Path, name)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSource, err, "read sheet %q", name)
	}
	return rows, nil
}
