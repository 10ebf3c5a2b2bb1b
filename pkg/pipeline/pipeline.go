// Package pipeline wires the workbook reader, the graph compiler and the
// render invoker into the export operation used by the CLI and the HTTP
// service.
//
// # Architecture
//
// An export runs three stages in a straight line:
//
//  1. Read: load the Nodes and Edges record sets (pkg/sheet)
//  2. Compile: turn the records into DOT text (pkg/dot)
//  3. Render: persist the text and run Graphviz on it (pkg/renderer)
//
// A read failure aborts the export before anything is written. A render
// failure leaves the description file on disk for inspection.
//
// # Usage
//
// Export with the platform defaults:
//
//	res, err := pipeline.Export(ctx, "model.xlsx", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.DescriptionPath, res.ImagePath)
//
// Build a runner from options:
//
//	runner, err := pipeline.NewRunnerFromOptions(pipeline.Options{
//	    Format:    "svg",
//	    StylePath: "style.toml",
//	})
package pipeline

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rfdraw/pkg/errors"
	"github.com/matzehuels/rfdraw/pkg/renderer"
	"github.com/matzehuels/rfdraw/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP service
// =============================================================================

const (
	// DefaultFormat is the image format produced when none is requested.
	DefaultFormat = renderer.DefaultFormat

	// EngineExec runs the located dot executable.
	EngineExec = "exec"
	// EngineEmbedded renders in-process with the bundled Graphviz build.
	EngineEmbedded = "embedded"

	// DefaultEngine is the engine used when none is requested.
	DefaultEngine = EngineExec
)

// ValidEngines lists the accepted Options.Engine values.
var ValidEngines = []string{EngineExec, EngineEmbedded}

// StyleExtensions lists the accepted style file extensions.
var StyleExtensions = []string{".toml", ".yaml", ".yml"}

// =============================================================================
// Options
// =============================================================================

// Options configures a Runner built with NewRunnerFromOptions.
type Options struct {
	// Format is the image format (png, jpg, gif, bmp, svg, pdf). The
	// embedded engine supports png, jpg and svg only.
	Format string

	// Engine selects how images are produced (exec or embedded).
	Engine string

	// StylePath is an optional TOML or YAML file overriding the platform
	// preset.
	StylePath string

	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
}

// ValidateEngine checks that engine is a known engine name.
func ValidateEngine(engine string) error {
	if !slices.Contains(ValidEngines, engine) {
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown engine %q (valid: %s)", engine, strings.Join(ValidEngines, ", "))
	}
	return nil
}

// ValidateAndSetDefaults fills empty fields and validates the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	formats := renderer.ValidFormats
	if o.Engine == EngineEmbedded {
		formats = renderer.EmbeddedFormats
	}
	if err := renderer.ValidateFormat(o.Format, formats...); err != nil {
		return err
	}
	if o.StylePath != "" {
		if err := errors.ValidateInputPath(o.StylePath, StyleExtensions...); err != nil {
			return err
		}
	}
	return nil
}

// NewRunnerFromOptions validates opts, loads the style file and selects the
// engine.
func NewRunnerFromOptions(opts Options) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	cfg := style.Host()
	if opts.StylePath != "" {
		loaded, err := style.Load(opts.StylePath, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logger := loggerOrDiscard(opts.Logger)
	var engine renderer.Engine
	switch opts.Engine {
	case EngineEmbedded:
		engine = &renderer.GraphvizEngine{Logger: logger}
	default:
		exec, err := renderer.NewExecEngine(logger)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create renderer")
		}
		engine = exec
	}

	return NewRunner(
		WithStyle(cfg),
		WithLogger(logger),
		WithInvoker(&renderer.Invoker{Engine: engine, Format: opts.Format, Logger: logger}),
	), nil
}

// Export runs a full export with the platform defaults. Artifacts are named
// after input's stem and written to outputDir, or next to input when
// outputDir is empty.
func Export(ctx context.Context, input, outputDir string) (*renderer.Result, error) {
	runner, err := NewRunnerFromOptions(Options{})
	if err != nil {
		return nil, err
	}
	return runner.Export(ctx, input, outputDir)
}
