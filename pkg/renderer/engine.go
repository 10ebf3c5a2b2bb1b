package renderer

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"
)

// Engine renders a description file to an image file.
type Engine interface {
	Render(ctx context.Context, format, descriptionPath, imagePath string) error
}

// ExecutableLocator resolves the renderer executable.
type ExecutableLocator interface {
	Locate() (string, error)
}

// ExecEngine runs the dot executable as a child process.
type ExecEngine struct {
	Locator ExecutableLocator
	Logger  *log.Logger
}

// NewExecEngine returns an ExecEngine using the locator of the running
// process.
func NewExecEngine(logger *log.Logger) (*ExecEngine, error) {
	l, err := NewLocator()
	if err != nil {
		return nil, fmt.Errorf("detect environment: %w", err)
	}
	return &ExecEngine{Locator: l, Logger: logger}, nil
}

// Render resolves the executable and runs it to completion. The child is not
// tied to ctx: a running render cannot be cancelled.
func (e *ExecEngine) Render(ctx context.Context, format, descriptionPath, imagePath string) error {
	logger := loggerOrDiscard(e.Logger)

	exe, err := e.Locator.Locate()
	if err != nil {
		return err
	}
	logger.Debugf("Using renderer %s", exe)

	args := []string{"-T" + format, descriptionPath, "-o", imagePath}
	cmd := exec.Command(exe, args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	command := append([]string{exe}, args...)

	// A leftover image from an earlier export must not count as output.
	if err := os.Remove(imagePath); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return &RenderFailedError{ExitCode: -1, Command: command, Cause: err, Stderr: err.Error()}
	}
	if err := cmd.Run(); err != nil {
		failed := &RenderFailedError{ExitCode: -1, Command: command, Stderr: errBuf.String(), Cause: err}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			failed.ExitCode = exitErr.ExitCode()
		}
		return failed
	}
	if s := errBuf.String(); s != "" {
		logger.Warnf("Renderer reported: %s", bytes.TrimSpace(errBuf.Bytes()))
	}

	if _, err := os.Stat(imagePath); err != nil {
		return &RenderFailedError{
			ExitCode: 0,
			Command:  command,
			Stderr:   errBuf.String(),
			Cause:    fmt.Errorf("renderer exited 0 but wrote no image: %w", err),
		}
	}
	return nil
}

// GraphvizEngine renders in-process with the WebAssembly build of Graphviz.
type GraphvizEngine struct {
	Logger *log.Logger
}

// Formats returns EmbeddedFormats.
func (e *GraphvizEngine) Formats() []string { return EmbeddedFormats }

// Render parses the description file and writes the image.
func (e *GraphvizEngine) Render(ctx context.Context, format, descriptionPath, imagePath string) error {
	if err := ValidateFormat(format, EmbeddedFormats...); err != nil {
		return err
	}
	command := []string{"go-graphviz", "-T" + format, descriptionPath, "-o", imagePath}
	fail := func(err error) error {
		return &RenderFailedError{ExitCode: -1, Command: command, Stderr: err.Error(), Cause: err}
	}

	src, err := os.ReadFile(descriptionPath)
	if err != nil {
		return fail(err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fail(fmt.Errorf("init graphviz: %w", err))
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(src)
	if err != nil {
		return fail(fmt.Errorf("parse DOT: %w", err))
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format(format), &buf); err != nil {
		return fail(fmt.Errorf("render: %w", err))
	}
	loggerOrDiscard(e.Logger).Debugf("Rendered %d bytes in-process", buf.Len())

	if err := os.WriteFile(imagePath, buf.Bytes(), 0644); err != nil {
		return fail(err)
	}
	return nil
}

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return l
}
