package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/iksnae/chatprep/internal"
	"github.com/spf13/cobra"
)

var (
	cacheClear bool
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the export cache",
	Long: `Show what the export cache holds: the source it was built from, the
detected target and the row counts of the cached tables.

Examples:
  chatprep cache            # Inspect the cache
  chatprep cache --clear    # Remove it`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cm := internal.NewCacheManager(cfg.CacheDir)
		out := cmd.OutOrStdout()

		if cacheClear {
			if err := cm.ClearCache(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Cache cleared"))
			return nil
		}

		index, err := cm.LoadIndex()
		if err != nil {
			_, _ = fmt.Fprintln(out, headerStyle.Render("📦 No cache found in "+cm.GetCacheDir()))
			return nil
		}

		stats, err := cm.Stats()
		if err != nil {
			return err
		}

		valid, _ := cm.IsCacheValid(cfg.Input)
		displayCache(out, cm, index, stats, valid)
		return nil
	},
}

func displayCache(out io.Writer, cm *internal.CacheManager, index *internal.CacheIndex, stats map[string]int, valid bool) {
	_, _ = fmt.Fprintln(out, headerStyle.Render("📦 Cache "+index.Metadata.CacheID))
	_, _ = fmt.Fprintf(out, "Directory: %s\n", cm.GetCacheDir())
	_, _ = fmt.Fprintf(out, "Source:    %s (%d bytes)\n", index.Metadata.SourcePath, index.Metadata.SourceSize)
	_, _ = fmt.Fprintf(out, "Created:   %s\n", dateStyle.Render(index.Metadata.CreatedAt.Format("2006-01-02 15:04:05")))
	if index.Target.Resolved() {
		_, _ = fmt.Fprintf(out, "Target:    %s\n", countStyle.Render(index.Target.Name))
	} else {
		_, _ = fmt.Fprintf(out, "Target:    %s\n", idStyle.Render("not detected"))
	}
	_, _ = fmt.Fprintf(out, "Chats:     %d\n", len(index.Chats))

	tables := make([]string, 0, len(stats))
	for name := range stats {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		_, _ = fmt.Fprintf(out, "  %-10s %s rows\n", name, countStyle.Render(fmt.Sprint(stats[name])))
	}

	if valid {
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Up to date with the configured input"))
	} else {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Stale for the configured input; it will be rebuilt"))
	}
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	addInputFlag(cacheCmd.Flags())
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "Remove the cache")
}
