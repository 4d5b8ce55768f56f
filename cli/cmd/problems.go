package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/cli/output"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Show build errors and warnings",
	Long: `Show the errors and warnings recorded in the stats file.

Problem entries keep whatever shape the bundler produced; table mode
prints the message when one can be extracted.

Examples:
  statlens problems
  statlens problems -o json`,
	PreRunE: requireReport,
	RunE:    runProblems,
}

func runProblems(cmd *cobra.Command, args []string) error {
	problems := report.Problems()

	formatter := GetFormatter()

	if formatter.Format != output.FormatTable {
		return formatter.Print(problems)
	}

	formatter.PrintKeyValue("Errors", strconv.Itoa(report.ErrorsCount))
	formatter.PrintKeyValue("Warnings", strconv.Itoa(report.WarningsCount))

	for _, p := range problems.Errors {
		formatter.PrintInfo("error: " + problemText(p))
	}
	for _, p := range problems.Warnings {
		formatter.PrintWarning(problemText(p))
	}

	return nil
}
