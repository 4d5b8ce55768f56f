package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/cli/output"
	"github.com/statlens-io/statlens/internal/stats"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a report overview",
	Long: `Show an overview of the stats file: detected shape, asset and
module counts, total emitted size and diagnostics counts.

Examples:
  statlens summary --stats dist/stats.json
  statlens summary -o json`,
	PreRunE: requireReport,
	RunE:    runSummary,
}

type reportSummary struct {
	Path          string      `json:"path" yaml:"path"`
	Shape         stats.Shape `json:"shape" yaml:"shape"`
	Assets        int         `json:"assets" yaml:"assets"`
	TotalSize     int64       `json:"totalSize" yaml:"totalSize"`
	Chunks        int         `json:"chunks" yaml:"chunks"`
	Modules       int         `json:"modules" yaml:"modules"`
	Errors        int         `json:"errors" yaml:"errors"`
	Warnings      int         `json:"warnings" yaml:"warnings"`
	FromCache     bool        `json:"fromCache" yaml:"fromCache"`
	SnapshotBytes int64       `json:"snapshotBytes" yaml:"snapshotBytes"`
}

func runSummary(cmd *cobra.Command, args []string) error {
	summary := reportSummary{
		Path:          snapshot.Path,
		Shape:         report.Shape,
		Assets:        len(report.Assets),
		TotalSize:     report.TotalAssetSize(),
		Chunks:        len(report.Chunks),
		Modules:       index.Len(),
		Errors:        report.ErrorsCount,
		Warnings:      report.WarningsCount,
		FromCache:     snapshot.FromCache,
		SnapshotBytes: snapshot.SizeBytes,
	}

	formatter := GetFormatter()

	if formatter.Format != output.FormatTable {
		return formatter.Print(summary)
	}

	formatter.PrintKeyValue("Stats file", summary.Path)
	formatter.PrintKeyValue("Shape", string(summary.Shape))
	formatter.PrintKeyValue("Assets", strconv.Itoa(summary.Assets))
	formatter.PrintKeyValue("Total size", stats.FormatSize(summary.TotalSize))
	formatter.PrintKeyValue("Chunks", strconv.Itoa(summary.Chunks))
	formatter.PrintKeyValue("Modules", strconv.Itoa(summary.Modules))
	formatter.PrintKeyValue("Errors", strconv.Itoa(summary.Errors))
	formatter.PrintKeyValue("Warnings", strconv.Itoa(summary.Warnings))
	formatter.PrintKeyValue("From cache", strconv.FormatBool(summary.FromCache))

	return nil
}
