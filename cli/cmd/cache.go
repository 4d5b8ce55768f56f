package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/statlens-io/statlens/internal/cache"
	"github.com/statlens-io/statlens/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the snapshot cache",
	Long:  `Inspect and clear the on-disk snapshot cache.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and entry count",
	Long: `Show where snapshots are cached and how many entries the cache holds.

Examples:
  statlens cache info`,
	RunE: runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached snapshots",
	Long: `Remove all cached snapshots.

Examples:
  statlens cache clear`,
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// openStore opens the snapshot cache from configuration without loading
// a stats file
func openStore() (*cache.Store, error) {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return cache.Open(loaded.Cache.Dir, loaded.Cache.MaxEntries)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	entries, err := store.Len()
	if err != nil {
		return err
	}

	formatter := GetFormatter()
	formatter.PrintKeyValue("Directory", store.Dir())
	formatter.PrintKeyValue("Entries", strconv.Itoa(entries))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	removed, err := store.Clear()
	if err != nil {
		return err
	}

	formatter := GetFormatter()
	formatter.PrintSuccess(fmt.Sprintf("Removed %d cached snapshot(s) from %s", removed, store.Dir()))
	return nil
}
