package renderer

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rfdraw/pkg/dot"
	"github.com/matzehuels/rfdraw/pkg/errors"
)

// DefaultFormat is the image format used when none is configured.
const DefaultFormat = "png"

// DescriptionExt is the extension of the persisted graph description.
const DescriptionExt = ".dot"

// ValidFormats lists the output formats the invoker accepts.
var ValidFormats = []string{"png", "jpg", "gif", "bmp", "svg", "pdf"}

// EmbeddedFormats lists the subset of ValidFormats GraphvizEngine produces.
var EmbeddedFormats = []string{"png", "jpg", "svg"}

// ValidateFormat returns an INVALID_FORMAT error when format is not in
// allowed. An empty allowed list means ValidFormats.
func ValidateFormat(format string, allowed ...string) error {
	if len(allowed) == 0 {
		allowed = ValidFormats
	}
	if !slices.Contains(allowed, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unsupported image format %q (valid: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// SupportedFormats returns the formats e can produce.
func SupportedFormats(e Engine) []string {
	if fl, ok := e.(interface{ Formats() []string }); ok {
		return fl.Formats()
	}
	return ValidFormats
}

// Result holds the paths of the two artifacts of one export.
type Result struct {
	DescriptionPath string `json:"description_path"`
	ImagePath       string `json:"image_path"`
}

// Paths computes the artifact paths for input. An empty outputDir means the
// input's directory.
func Paths(input, outputDir, format string) (Result, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", input)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(abs)
	} else if outputDir, err = filepath.Abs(outputDir); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", outputDir)
	}
	if format == "" {
		format = DefaultFormat
	}

	base := filepath.Base(abs)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Result{
		DescriptionPath: filepath.Join(outputDir, stem+DescriptionExt),
		ImagePath:       filepath.Join(outputDir, stem+"."+format),
	}, nil
}

// Invoker persists a compiled graph and turns it into an image.
type Invoker struct {
	Engine Engine
	Format string
	Logger *log.Logger
}

// Render writes g next to the artifacts derived from input and runs the
// engine. On failure the description file stays on disk.
func (inv *Invoker) Render(ctx context.Context, g dot.Graph, input, outputDir string) (*Result, error) {
	logger := loggerOrDiscard(inv.Logger)
	format := inv.Format
	if format == "" {
		format = DefaultFormat
	}
	engine := inv.Engine
	if engine == nil {
		var err error
		if engine, err = NewExecEngine(logger); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create renderer")
		}
	}
	if err := ValidateFormat(format, SupportedFormats(engine)...); err != nil {
		return nil, err
	}

	res, err := Paths(input, outputDir, format)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(res.DescriptionPath), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
	}
	if err := os.WriteFile(res.DescriptionPath, g.Bytes(), 0644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", res.DescriptionPath)
	}
	logger.Debugf("Wrote description %s", res.DescriptionPath)

	start := time.Now()
	if err := engine.Render(ctx, format, res.DescriptionPath, res.ImagePath); err != nil {
		return nil, err
	}
	logger.Debugf("Rendered %s in %s", res.ImagePath, time.Since(start).Round(time.Millisecond))
	return &res, nil
}
