package cli

import (
	"context"
	stderrors "errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rfdraw/pkg/errors"
	"github.com/matzehuels/rfdraw/pkg/pipeline"
	"github.com/matzehuels/rfdraw/pkg/renderer"
	"github.com/matzehuels/rfdraw/pkg/sheet"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	outputDir string // directory for both artifacts; defaults to the workbook's
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <workbook>",
		Short: "Write the DOT description and the rendered image of a workbook",
		Long: `Export reads the Nodes and Edges sheets of a workbook (.xlsx, .xlsm or .json),
writes <stem>.dot and renders it to <stem>.<format> with Graphviz.

Both files are written next to the workbook unless --out is given.`,
		Example: `  rfdraw export model.xlsx
  rfdraw export model.xlsx --format svg --out build/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateWorkbookArgs(args[0], opts.outputDir); err != nil {
				return err
			}
			runner, err := c.runner(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			_, err = runExport(cmd.Context(), runner, args[0], opts.outputDir)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "out", "o", "", "output directory (default: the workbook's directory)")
	return cmd
}

func validateWorkbookArgs(input, outputDir string) error {
	if err := errors.ValidateInputPath(input, sheet.Extensions...); err != nil {
		return err
	}
	return errors.ValidateOutputDir(outputDir)
}

// runExport runs one export with a spinner and prints the outcome.
func runExport(ctx context.Context, runner *pipeline.Runner, input, outputDir string) (*renderer.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, err := runner.Compile(ctx, input)
	if err != nil {
		printError("Could not read %s", filepath.Base(input))
		return nil, err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()
	res, err := runner.Render(ctx, g, input, outputDir)
	if err != nil {
		spinner.StopWithError("Export failed")
		explain(err)
		return nil, err
	}
	spinner.StopWithSuccess("Exported " + filepath.Base(input))

	printStats(g.Nodes, g.Edges, g.SkippedNodes, g.SkippedEdges)
	printFile(res.DescriptionPath)
	printFile(res.ImagePath)
	prog.done("Export complete")
	return res, nil
}

// explain prints the actionable part of renderer errors.
func explain(err error) {
	var (
		notFound *renderer.ExecutableNotFoundError
		failed   *renderer.RenderFailedError
	)
	switch {
	case stderrors.As(err, &notFound):
		printWarning("Graphviz was not found")
		for _, c := range notFound.Searched {
			printDetail("%s (%s)", c.Path, c.Intent)
		}
		printNextStep("Inspect the search", appName+" locate")
	case stderrors.As(err, &failed):
		printWarning("Graphviz exited with code %d", failed.ExitCode)
		printDetail("%s", failed.CommandLine())
		if failed.Stderr != "" {
			printDetail("%s", failed.Stderr)
		}
	}
}
