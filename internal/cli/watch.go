package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rfdraw/pkg/watch"
)

// watchOpts holds the flags of the watch command.
type watchOpts struct {
	outputDir string
	debounce  time.Duration
}

func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{debounce: watch.DefaultDebounce}

	cmd := &cobra.Command{
		Use:   "watch <workbook>",
		Short: "Re-export a workbook every time it is saved",
		Long: `Watch exports the workbook once, then again after every save until
interrupted. Failed exports are reported and watching continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateWorkbookArgs(args[0], opts.outputDir); err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			runner, err := c.runner(logger)
			if err != nil {
				return err
			}

			w, err := watch.New(args[0], func(ctx context.Context, path string) error {
				_, err := runExport(ctx, runner, path, opts.outputDir)
				return err
			}, &watch.Options{
				Debounce:   opts.debounce,
				RunOnStart: true,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			printInfo("Watching %s", filepath.Base(w.Path()))
			printDetail("press Ctrl+C to stop")
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "out", "o", "", "output directory (default: the workbook's directory)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", opts.debounce, "quiet period after a save before exporting")
	return cmd
}
