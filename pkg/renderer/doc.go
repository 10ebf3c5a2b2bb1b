// Package renderer turns compiled DOT text into raster images.
//
// # Overview
//
// Rendering is split into three parts:
//
//   - [Locator] finds the Graphviz dot executable for the running process
//   - [Engine] runs a renderer against a description file
//   - [Invoker] writes the description next to the input and drives an Engine
//
// # Locating dot
//
// [Candidates] is a pure function from an [Env] to an ordered candidate
// list. It supports three deployment shapes without configuration:
//
//   - a developer checkout, with a portable Graphviz in the project root
//   - a packaged application, with a portable Graphviz beside the bundle
//   - a machine with Graphviz installed system-wide
//
// Portable builds live in graphviz-mac/bin/dot on macOS and
// graphviz-win/bin/dot.exe on Windows. Co-located candidates are tried first;
// the executable found on PATH is always tried last. Other platforms only use
// PATH. [DetectEnv] derives the Env from the running process, and
// [Locator.Locate] returns the first candidate that exists. Nothing is cached,
// so every call re-checks the filesystem.
//
// # Engines
//
// [ExecEngine] runs
//
//	<dot> -T<format> <description> -o <image>
//
// as a child process and waits for it without a timeout. A non-zero exit
// yields a [*RenderFailedError] carrying the exit code, the command line and
// the captured stderr. [GraphvizEngine] renders in-process with the
// WebAssembly build of Graphviz from [github.com/goccy/go-graphviz] and needs
// no executable.
//
// # Artifacts
//
// [Invoker.Render] writes <stem>.dot and <stem>.<format> into the output
// directory, which defaults to the input file's directory. When rendering
// fails the description file is left on disk so it can be inspected.
package renderer
