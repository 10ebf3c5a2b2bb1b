// Package sheet reads the node and edge record sets that rfdraw compiles
// into a graph description.
//
// # Overview
//
// A workbook exposes two named record sets:
//
//   - Nodes, with the columns NodeID, Label and Category
//   - Edges, with the columns FromNode, ToNode and Style
//
// Row order inside each set is preserved, because it becomes the emission
// order of the compiled description. Columns are matched by header name, so
// they may appear in any order and extra columns are ignored. A missing
// optional column simply yields empty cells.
//
// # Formats
//
// [Open] dispatches on the file extension:
//
//   - .xlsx, .xlsm: Excel workbooks with sheets named "Nodes" and "Edges",
//     read with [github.com/xuri/excelize/v2]
//   - .json: an object with "Nodes" and "Edges" arrays whose objects use the
//     same column names as keys
//
//	{
//	  "Nodes": [{"NodeID": "A", "Label": "Start", "Category": "Hazard"}],
//	  "Edges": [{"FromNode": "A", "ToNode": "B", "Style": "bold"}]
//	}
//
// # Errors
//
// If a workbook cannot be opened, or one of the two record sets is missing,
// the returned error carries the DATA_SOURCE code from [errors]. Cell values
// are otherwise passed through untouched: trimming and placeholder handling
// are left to the compiler.
//
// [errors]: github.com/matzehuels/rfdraw/pkg/errors
package sheet
