package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rfdraw/pkg/dot"
	"github.com/matzehuels/rfdraw/pkg/errors"
	"github.com/matzehuels/rfdraw/pkg/observability"
	"github.com/matzehuels/rfdraw/pkg/renderer"
	"github.com/matzehuels/rfdraw/pkg/sheet"
	"github.com/matzehuels/rfdraw/pkg/style"
)

// Runner executes exports.
//
// The Runner holds no per-export state. Multiple goroutines can share one
// Runner; concurrent exports to the same paths are last-writer-wins.
type Runner struct {
	Source  sheet.Opener
	Style   *style.Config
	Invoker *renderer.Invoker
	Logger  *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSource sets the workbook reader.
func WithSource(o sheet.Opener) Option { return func(r *Runner) { r.Source = o } }

// WithStyle sets the style configuration passed to the compiler.
func WithStyle(cfg *style.Config) Option { return func(r *Runner) { r.Style = cfg } }

// WithInvoker sets the render invoker.
func WithInvoker(inv *renderer.Invoker) Option { return func(r *Runner) { r.Invoker = inv } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(r *Runner) { r.Logger = l } }

// NewRunner creates a runner. Unset fields default to the extension-based
// workbook reader, the host style preset, an exec-engine invoker producing
// PNG and a discarding logger.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Source == nil {
		r.Source = sheet.DefaultOpener
	}
	if r.Style == nil {
		r.Style = style.Host()
	}
	r.Logger = loggerOrDiscard(r.Logger)
	if r.Invoker == nil {
		r.Invoker = &renderer.Invoker{Logger: r.Logger}
	}
	return r
}

// Read loads the workbook at input. Every failure carries DATA_SOURCE.
func (r *Runner) Read(ctx context.Context, input string) (*sheet.Workbook, error) {
	hooks := observability.Pipeline()
	hooks.OnReadStart(ctx, input)

	start := time.Now()
	wb, err := r.Source.Open(input)
	if err == nil && wb == nil {
		err = errors.New(errors.ErrCodeDataSource, "no records read from %s", input)
	}
	if err != nil && !errors.Is(err, errors.ErrCodeDataSource) {
		err = errors.Wrap(errors.ErrCodeDataSource, err, "read %s", input)
	}
	if err != nil {
		hooks.OnReadComplete(ctx, input, 0, 0, time.Since(start), err)
		return nil, err
	}

	hooks.OnReadComplete(ctx, input, len(wb.Nodes), len(wb.Edges), time.Since(start), nil)
	r.Logger.Debug("read workbook",
		"input", input,
		"nodes", len(wb.Nodes),
		"edges", len(wb.Edges),
		"duration", time.Since(start))
	return wb, nil
}

// Compile reads input and compiles it to DOT without rendering.
func (r *Runner) Compile(ctx context.Context, input string) (dot.Graph, error) {
	wb, err := r.Read(ctx, input)
	if err != nil {
		return dot.Graph{}, err
	}

	start := time.Now()
	g := dot.Compile(wb.Nodes, wb.Edges, r.Style)
	observability.Pipeline().OnCompileComplete(ctx, g.Nodes, g.Edges, g.SkippedNodes, g.SkippedEdges, time.Since(start))

	if g.SkippedNodes > 0 || g.SkippedEdges > 0 {
		r.Logger.Debug("skipped incomplete rows",
			"nodes", g.SkippedNodes,
			"edges", g.SkippedEdges)
	}
	r.Logger.Debug("compiled graph", "nodes", g.Nodes, "edges", g.Edges)
	return g, nil
}

// Export reads, compiles and renders input. Nothing is written when the
// workbook cannot be read.
func (r *Runner) Export(ctx context.Context, input, outputDir string) (*renderer.Result, error) {
	g, err := r.Compile(ctx, input)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, g, input, outputDir)
}

// Render persists g and renders it, naming both artifacts after input.
func (r *Runner) Render(ctx context.Context, g dot.Graph, input, outputDir string) (*renderer.Result, error) {
	format := r.Invoker.Format
	if format == "" {
		format = renderer.DefaultFormat
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	res, err := r.Invoker.Render(ctx, g, input, outputDir)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("exported",
		"description", res.DescriptionPath,
		"image", res.ImagePath,
		"duration", time.Since(start))
	return res, nil
}

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return l
}
