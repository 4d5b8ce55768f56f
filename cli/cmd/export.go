package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/cli/output"
	"github.com/statlens-io/statlens/internal/stats"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the normalized report",
	Long: `Export the normalized report together with its snapshot metadata,
for consumption by downstream tooling.

Table format is not meaningful for a full report, so the export falls
back to JSON unless --output selects yaml.

Examples:
  statlens export
  statlens export -o yaml
  statlens export --out report.json`,
	PreRunE: requireReport,
	RunE:    runExport,
}

type exportSnapshot struct {
	ID        string    `json:"id" yaml:"id"`
	Path      string    `json:"path" yaml:"path"`
	SizeBytes int64     `json:"sizeBytes" yaml:"sizeBytes"`
	SHA256    string    `json:"sha256" yaml:"sha256"`
	LoadedAt  time.Time `json:"loadedAt" yaml:"loadedAt"`
	FromCache bool      `json:"fromCache" yaml:"fromCache"`
}

type exportPayload struct {
	Snapshot exportSnapshot `json:"snapshot" yaml:"snapshot"`
	Report   *stats.Report  `json:"report" yaml:"report"`
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	payload := exportPayload{
		Snapshot: exportSnapshot{
			ID:        snapshot.ID.String(),
			Path:      snapshot.Path,
			SizeBytes: snapshot.SizeBytes,
			SHA256:    snapshot.SHA256,
			LoadedAt:  snapshot.LoadedAt,
			FromCache: snapshot.FromCache,
		},
		Report: report,
	}

	formatter := GetFormatter()

	if exportOut == "" {
		return formatter.Print(payload)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := writeExport(f, formatter.Format, payload); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	formatter.PrintSuccess(fmt.Sprintf("Exported report to %s", exportOut))
	return nil
}

// writeExport renders the payload to w and closes it. A failed close
// counts as a failed write.
func writeExport(w io.WriteCloser, format output.Format, payload interface{}) error {
	fileFormatter := &output.Formatter{Format: format, Writer: w}
	if err := fileFormatter.Print(payload); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
