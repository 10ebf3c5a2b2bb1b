package renderer

import (
	"fmt"
	"strings"

	"github.com/matzehuels/rfdraw/pkg/errors"
)

// ExecutableNotFoundError is returned when no dot candidate exists.
type ExecutableNotFoundError struct {
	Env      Env
	Searched []Candidate
}

// Error lists every searched location and how to fix the setup.
func (e *ExecutableNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not find Graphviz %q (packaging=%s, platform=%s); searched:",
		ExecutableName(e.Env.Family), e.Env.Packaging, e.Env.Family)
	for _, c := range e.Searched {
		fmt.Fprintf(&b, "\n  - %s (%s)", c.Path, c.Intent)
	}
	switch e.Env.Family {
	case FamilyMacOS:
		b.WriteString("\nplace a portable build in graphviz-mac/bin/dot or install Graphviz (brew install graphviz)")
	case FamilyWindows:
		b.WriteString("\nplace a portable build in graphviz-win/bin/dot.exe or install Graphviz so that dot.exe is on PATH")
	default:
		b.WriteString("\ninstall Graphviz so that dot is on PATH")
	}
	return b.String()
}

// Code implements errors.Coder.
func (e *ExecutableNotFoundError) Code() errors.Code { return errors.ErrCodeExecutableNotFound }

// RenderFailedError is returned when the renderer exits non-zero or does not
// produce an image.
type RenderFailedError struct {
	// ExitCode is the renderer's exit status, or -1 when it did not run to
	// completion.
	ExitCode int

	// Command is the invoked command line, program first.
	Command []string

	// Stderr is the renderer's captured diagnostic output.
	Stderr string

	// Cause is the underlying error, if any.
	Cause error
}

// CommandLine returns Command joined by spaces, quoting arguments that
// contain whitespace.
func (e *RenderFailedError) CommandLine() string {
	parts := make([]string, len(e.Command))
	for i, arg := range e.Command {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"") {
			arg = fmt.Sprintf("%q", arg)
		}
		parts[i] = arg
	}
	return strings.Join(parts, " ")
}

func (e *RenderFailedError) Error() string {
	var b strings.Builder
	switch {
	case e.ExitCode > 0:
		fmt.Fprintf(&b, "graphviz failed with exit code %d", e.ExitCode)
	case e.Cause != nil:
		fmt.Fprintf(&b, "graphviz failed: %v", e.Cause)
	default:
		b.WriteString("graphviz failed")
	}
	if len(e.Command) > 0 {
		fmt.Fprintf(&b, "\ncommand: %s", e.CommandLine())
	}
	if s := strings.TrimRight(e.Stderr, "\n"); s != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", s)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *RenderFailedError) Unwrap() error { return e.Cause }

// Code implements errors.Coder.
func (e *RenderFailedError) Code() errors.Code { return errors.ErrCodeRenderFailed }
