package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rfdraw/pkg/errors"
	"github.com/matzehuels/rfdraw/pkg/sheet"
)

func (c *CLI) compileCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compile <workbook>",
		Short: "Print the DOT description of a workbook without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateInputPath(args[0], sheet.Extensions...); err != nil {
				return err
			}
			runner, err := c.runner(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			g, err := runner.Compile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), g.String())
				return err
			}
			if err := os.WriteFile(output, g.Bytes(), 0644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess("Compiled %s", args[0])
			printStats(g.Nodes, g.Edges, g.SkippedNodes, g.SkippedEdges)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the description to a file instead of stdout")
	return cmd
}
