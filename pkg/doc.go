// Package pkg holds the libraries behind rfdraw.
//
// rfdraw draws risk-framework diagrams: a workbook lists nodes (hazards,
// exposures, vulnerabilities, impacts, risks) and the edges between them,
// and rfdraw turns it into a Graphviz description and an image.
//
// # Layout
//
//   - [sheet]: read the Nodes and Edges record sets from .xlsx or .json
//   - [style]: category palette and graph, node and edge default attributes
//   - [dot]: compile records and style into DOT text
//   - [renderer]: find the dot executable and run it
//   - [pipeline]: read, compile and render in one call
//   - [watch]: re-run an export when a workbook is saved
//   - [server]: the pipeline over HTTP
//   - [errors]: error codes shared by all of the above
//   - [observability]: optional metrics hooks
//
// # Data flow
//
//	workbook (.xlsx / .json)
//	         ↓ sheet.Open
//	Nodes + Edges records
//	         ↓ dot.Compile (with style.Config)
//	DOT text
//	         ↓ renderer.Invoker.Render
//	<stem>.dot + <stem>.<format>
package pkg
