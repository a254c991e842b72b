package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chatprep/internal"
	"github.com/iksnae/chatprep/internal/export"
	"github.com/spf13/cobra"
)

var (
	prepareClearCache bool
)

var (
	reportKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(20)

	reportValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)
)

// prepareCmd represents the prepare command
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Build the training dataset from an export",
	Long: `Run the full pipeline over a Telegram export and write the dataset.

Messages older than --last-x-months are dropped, each chat is split into
sessions at pauses of --session-minutes-threshold minutes, and every session
in which the target replies is written as one record.

Use --report to also save a YAML summary of the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter(cfg.Format)
		if err != nil {
			return err
		}

		cacheManager := cfg.CacheManager()
		if prepareClearCache && cacheManager != nil {
			if err := cacheManager.ClearCache(); err != nil {
				internal.LogWarn("Failed to clear cache: %v", err)
			} else {
				internal.LogInfo("Cache cleared")
			}
		}

		pipeline := internal.NewPipeline(cfg.Options())

		var (
			chats     []internal.Chat
			detected  internal.Target
			fromCache bool
			result    *internal.Result
		)

		steps := []internal.ProgressStep{
			{
				Message: "Loading chat export",
				Fn: func(ctx context.Context) error {
					var loadErr error
					chats, detected, fromCache, loadErr = internal.LoadChatsCached(cacheManager, cfg.Input)
					return loadErr
				},
			},
			{
				Message: "Building sessions",
				Fn: func(ctx context.Context) error {
					var runErr error
					result, runErr = pipeline.Run(ctx, chats, detected)
					return runErr
				},
			},
			{
				Message: fmt.Sprintf("Writing %s", cfg.Output),
				Fn: func(ctx context.Context) error {
					return export.WriteFile(cfg.Output, exporter, result.Records)
				},
			},
		}

		if err := internal.ShowProgressWithSteps(commandContext(cmd), steps); err != nil {
			return err
		}

		report := result.Report
		report.Source = cfg.Input
		report.Output = cfg.Output
		report.Format = cfg.Format
		report.FromCache = fromCache
		report.Finish(time.Now())

		if cfg.Report != "" {
			if err := internal.SaveReport(report, cfg.Report); err != nil {
				return err
			}
			internal.LogInfo("Run report written to %s", cfg.Report)
		}

		printReport(cmd.OutOrStdout(), report)
		if report.Records == 0 {
			internal.PrintWarning(fmt.Sprintf("No sessions contain a reply from '%s'", report.Target))
		}
		internal.PrintSuccess(fmt.Sprintf("Wrote %d record(s) to %s", report.Records, cfg.Output))
		return nil
	},
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printReport(w io.Writer, report *internal.RunReport) {
	_, _ = fmt.Fprintln(w, headerStyle.Render("📊 Run summary"))
	for _, line := range report.Lines() {
		_, _ = fmt.Fprintf(w, "%s %s\n", reportKeyStyle.Render(line[0]), reportValueStyle.Render(line[1]))
	}
	if report.FromCache {
		_, _ = fmt.Fprintln(w, dateStyle.Render("(export loaded from cache)"))
	}
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	addInputFlag(prepareCmd.Flags())
	prepareCmd.Flags().StringP("output", "o", "./data/training_data.jsonl", "Output dataset path")
	prepareCmd.Flags().StringP("format", "f", "jsonl", "Output format (jsonl, json, yaml, md)")
	prepareCmd.Flags().String("report", "", "Write a YAML run report to this path")
	addPipelineFlags(prepareCmd.Flags())
	prepareCmd.Flags().BoolVar(&prepareClearCache, "clear-cache", false, "Clear the cache before running")
}
