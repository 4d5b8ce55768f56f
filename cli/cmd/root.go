// Package cmd provides the Cobra commands for the statlens CLI.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/cli/output"
	"github.com/statlens-io/statlens/cli/util"
	"github.com/statlens-io/statlens/internal/cache"
	"github.com/statlens-io/statlens/internal/config"
	"github.com/statlens-io/statlens/internal/ingest"
	"github.com/statlens-io/statlens/internal/stats"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"

	// Global flags
	cfgFile   string
	statsPath string
	outputFmt string
	noHeaders bool
	quiet     bool
	debug     bool
	noCache   bool

	// Shared across commands
	cfg       *config.Config
	formatter *output.Formatter
	snapshot  *ingest.Snapshot
	report    *stats.Report
	index     *stats.Index
	resolver  *stats.Resolver
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "statlens",
	Short: "statlens - Inspect bundler stats files",
	Long: `statlens reads bundler stats JSON files and answers questions about them.

Features:
  - Summary: Shape, asset, module and problem counts at a glance
  - Assets: Emitted files sorted by size
  - Modules: Source modules bundled into a given asset
  - Dependents: Modules that import a given module
  - Export: Normalized report for downstream tooling

Get started:
  statlens summary --stats dist/stats.json
  statlens --help                             Show available commands`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Silence errors only when --quiet is used
		cmd.SilenceErrors = quiet
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches ., ./config, ~/.config/statlens)")
	rootCmd.PersistentFlags().StringVarP(&statsPath, "stats", "s", "",
		"path to the bundler stats JSON file")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "",
		"output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false,
		"hide table headers")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"minimal output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug output")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"bypass the snapshot cache")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(dependentsCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cacheCmd)
}

func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !util.IsInteractive()})

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// initializeReport loads the stats file and builds the shared report,
// index and resolver for commands that work on a snapshot
func initializeReport(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	path := statsPath
	if path == "" {
		path = cfg.Stats.Path
	}

	var store *cache.Store
	if cfg.Cache.Enabled && !noCache {
		store, err = cache.Open(cfg.Cache.Dir, cfg.Cache.MaxEntries)
		if err != nil {
			log.Warn().Err(err).Msg("Snapshot cache unavailable, continuing without it")
			store = nil
		}
	}

	snapshot, err = ingest.NewLoader(store).Load(path)
	if err != nil {
		return err
	}

	report = snapshot.Report
	index = stats.NewIndex(report)
	resolver = stats.NewResolver(report, index)

	format := outputFmt
	if format == "" {
		format = cfg.Output.Format
	}
	parsed, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	formatter = output.NewFormatter(parsed, noHeaders, quiet)

	return nil
}

// requireReport wraps initializeReport for use in PreRunE
func requireReport(cmd *cobra.Command, args []string) error {
	return initializeReport(cmd, args)
}

// GetFormatter returns the output formatter (for use by subcommands)
func GetFormatter() *output.Formatter {
	if formatter == nil {
		format, _ := output.ParseFormat(outputFmt)
		formatter = output.NewFormatter(format, noHeaders, quiet)
	}
	return formatter
}
