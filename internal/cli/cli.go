// Package cli implements the rfdraw command-line interface.
//
// rfdraw turns a risk-framework workbook (a Nodes sheet and an Edges sheet)
// into a Graphviz description and an image rendered from it.
//
// # Commands
//
//   - export: Write <stem>.dot and <stem>.<format> for a workbook
//   - compile: Print the DOT description without rendering
//   - locate: Show where the Graphviz executable is searched for
//   - watch: Re-export a workbook every time it is saved
//   - serve: Expose export over a local HTTP API
//
// # Configuration
//
// Flags take their defaults from the environment, and a .env file in the
// working directory is loaded at startup:
//
//	RFDRAW_STYLE   style file (.toml, .yaml)
//	RFDRAW_FORMAT  image format (png, jpg, gif, bmp, svg, pdf)
//	RFDRAW_ENGINE  exec or embedded
//	RFDRAW_ADDR    listen address for serve
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rfdraw/pkg/buildinfo"
	"github.com/matzehuels/rfdraw/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "rfdraw"

	envStyle  = "RFDRAW_STYLE"
	envFormat = "RFDRAW_FORMAT"
	envEngine = "RFDRAW_ENGINE"
	envAddr   = "RFDRAW_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// NewRunner builds the pipeline runner for a command. Tests replace it
	// to inject a stub renderer.
	NewRunner func(pipeline.Options) (*pipeline.Runner, error)

	render renderFlags
}

// renderFlags are the persistent flags shared by every command that runs the
// pipeline.
type renderFlags struct {
	style  string
	format string
	engine string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		NewRunner: pipeline.NewRunnerFromOptions,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "rfdraw draws risk-framework workbooks with Graphviz",
		Long:         `rfdraw reads the Nodes and Edges sheets of a workbook, compiles them into a Graphviz description with category colors and edge styles, and renders it to an image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.render.style, "style", os.Getenv(envStyle), "style file overriding the platform preset (.toml, .yaml) [$"+envStyle+"]")
	pf.StringVarP(&c.render.format, "format", "f", envOr(envFormat, pipeline.DefaultFormat), "image format: png, jpg, gif, bmp, svg, pdf (embedded: png, jpg, svg) [$"+envFormat+"]")
	pf.StringVar(&c.render.engine, "engine", envOr(envEngine, pipeline.DefaultEngine), "renderer: exec (Graphviz executable) or embedded [$"+envEngine+"]")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.compileCommand())
	root.AddCommand(c.locateCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runner builds a pipeline runner from the persistent flags.
func (c *CLI) runner(logger *log.Logger) (*pipeline.Runner, error) {
	return c.NewRunner(pipeline.Options{
		Format:    c.render.format,
		Engine:    c.render.engine,
		StylePath: c.render.style,
		Logger:    logger,
	})
}

// envOr returns the value of the environment variable key, or def when unset.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
