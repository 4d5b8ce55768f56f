package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/cli/output"
)

var modulesCmd = &cobra.Command{
	Use:   "modules [asset]",
	Short: "List the modules bundled into an asset",
	Long: `List the source modules that ended up inside a given asset,
sorted by size descending.

Asset names must match exactly, including any content hash in the
file name.

Examples:
  statlens modules main.js
  statlens modules main.abc123.js -o json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireReport,
	RunE:    runModules,
}

func runModules(cmd *cobra.Command, args []string) error {
	modules := resolver.AssetModules(args[0])

	if len(modules) == 0 {
		fmt.Printf("No modules resolved for asset %q.\n", args[0])
		return nil
	}

	formatter := GetFormatter()

	if formatter.Format != output.FormatTable {
		return formatter.Print(modules)
	}

	formatter.PrintTable(moduleTable(modules))
	return nil
}
