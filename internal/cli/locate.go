package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rfdraw/pkg/renderer"
)

func (c *CLI) locateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Show where the Graphviz executable is searched for",
		Long: `Locate lists every place the dot executable is looked for, in search order,
and marks the ones that exist. The first existing candidate is used by export.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := renderer.NewLocator()
			if err != nil {
				return err
			}
			return printLocate(l)
		},
	}
}

func printLocate(l *renderer.Locator) error {
	printKeyValue("platform", string(l.Env.Family))
	printKeyValue("packaging", string(l.Env.Packaging))
	printKeyValue("anchor", l.Env.Anchor)
	printNewline()

	for _, p := range l.Describe() {
		printProbe(p.Path, p.Intent, p.Exists)
	}
	printNewline()

	exe, err := l.Locate()
	if err != nil {
		printError("No Graphviz executable found")
		printNextStep("Render without Graphviz", appName+" export --engine embedded <workbook>")
		return err
	}
	printSuccess("Using %s", exe)
	return nil
}
