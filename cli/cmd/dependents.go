package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/cli/output"
)

var dependentsCmd = &cobra.Command{
	Use:   "dependents [module]",
	Short: "List the modules that depend on a module",
	Long: `List the modules that import a given module.

The module may be referenced by id, by identifier, or by a path-like
name fragment. For a concatenated module the bundled sub-modules are
reported instead of the importers.

Examples:
  statlens dependents 42
  statlens dependents ./src/util.js
  statlens dependents ./src/util.js -o yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireReport,
	RunE:    runDependents,
}

func runDependents(cmd *cobra.Command, args []string) error {
	modules := resolver.ModuleDependents(args[0])

	if len(modules) == 0 {
		fmt.Printf("No dependents found for module %q.\n", args[0])
		return nil
	}

	formatter := GetFormatter()

	if formatter.Format != output.FormatTable {
		return formatter.Print(modules)
	}

	formatter.PrintTable(moduleTable(modules))
	return nil
}
