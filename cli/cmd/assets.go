package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/cli/output"
	"github.com/statlens-io/statlens/cli/util"
	"github.com/statlens-io/statlens/internal/stats"
)

var assetsLimit int

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List emitted assets, largest first",
	Long: `List the assets the bundler emitted, sorted by size descending.

Examples:
  statlens assets --stats dist/stats.json
  statlens assets --limit 10
  statlens assets -o json`,
	PreRunE: requireReport,
	RunE:    runAssets,
}

func init() {
	assetsCmd.Flags().IntVar(&assetsLimit, "limit", 0, "show at most this many assets (0 = all)")
}

func runAssets(cmd *cobra.Command, args []string) error {
	assets := report.Assets
	if assetsLimit > 0 && len(assets) > assetsLimit {
		assets = assets[:assetsLimit]
	}

	if len(assets) == 0 {
		fmt.Println("No assets found.")
		return nil
	}

	formatter := GetFormatter()

	if formatter.Format != output.FormatTable {
		return formatter.Print(assets)
	}

	data := output.TableData{
		Headers:   []string{"NAME", "SIZE", "CHUNKS", "CHUNK NAMES"},
		Rows:      make([][]string, len(assets)),
		Alignment: []int{output.AlignLeft, output.AlignRight, output.AlignLeft, output.AlignLeft},
	}

	for i, a := range assets {
		data.Rows[i] = []string{
			util.TruncateString(a.Name, 60),
			stats.FormatSize(a.Size),
			formatChunkRefs(a.Chunks),
			util.TruncateString(strings.Join(a.ChunkNames, ", "), 40),
		}
	}

	formatter.PrintTable(data)
	return nil
}
