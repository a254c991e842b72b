package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chatprep/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// errCheckFailed is returned when a required check does not pass
var errCheckFailed = errors.New("check failed")

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that an export can be turned into a dataset",
	Long: `Check the setup before running 'chatprep prepare' by verifying:
  • Configuration values
  • Export file accessibility
  • Export structure and supported chats
  • Target detection from Saved Messages
  • Cache state`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 chatprep check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Configuration
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving configuration..."))
		cfg, err := loadConfig(cmd)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Invalid configuration:"), err)
			return fmt.Errorf("%w: %v", errCheckFailed, err)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Configuration valid"))
		if verbose {
			_, _ = fmt.Fprintf(out, "   Window: last %d month(s)\n", cfg.LastXMonths)
			_, _ = fmt.Fprintf(out, "   Session threshold: %d minute(s)\n", cfg.SessionMinutesThreshold)
			_, _ = fmt.Fprintf(out, "   Output: %s (%s)\n", cfg.Output, cfg.Format)
		}
		_, _ = fmt.Fprintln(out)

		// Step 2: Export file
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Checking export file..."))
		info, err := os.Stat(cfg.Input)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Export not accessible:"), err)
			suggestExports(out)
			return fmt.Errorf("%w: %w", errCheckFailed, &internal.StorageError{Path: cfg.Input, Op: "open", Err: err})
		}
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %s (%d bytes)", cfg.Input, info.Size())))
		_, _ = fmt.Fprintln(out)

		// Step 3: Parse
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Parsing export..."))
		chats, detected, err := internal.LoadChats(cfg.Input)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to parse export:"), err)
			return fmt.Errorf("%w: %w", errCheckFailed, err)
		}
		if len(chats) == 0 {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No supported chats with text messages found"))
		} else {
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d chat(s)", len(chats))))
			if verbose {
				printKindCounts(out, chats)
			}
		}
		_, _ = fmt.Fprintln(out)

		// Step 4: Target
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 4: Resolving target..."))
		target := detected.WithOverride(cfg.TargetName)
		targetOK := target.Resolved()
		switch {
		case cfg.TargetName != "":
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Target set to '%s'", target.Name)))
			if detected.Resolved() && detected.Name != cfg.TargetName {
				_, _ = fmt.Fprintf(out, "   Detected name was '%s'\n", detected.Name)
			}
		case targetOK:
			_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Detected target '%s'", target.Name)))
		case cfg.AllowMissingTarget:
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No target detected; the dataset will be empty"))
		default:
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ No target detected"))
			_, _ = fmt.Fprintln(out, "   This could mean:")
			_, _ = fmt.Fprintln(out, "   • The export does not include Saved Messages")
			_, _ = fmt.Fprintln(out, "   • You have never sent a message to Saved Messages")
			_, _ = fmt.Fprintln(out, "   Set --target-name to choose the person explicitly")
		}
		_, _ = fmt.Fprintln(out)

		// Step 5: Cache
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 5: Checking cache..."))
		if cm := cfg.CacheManager(); cm == nil {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Cache disabled"))
		} else if valid, err := cm.IsCacheValid(cfg.Input); err == nil && valid {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Cache is up to date"))
			if verbose {
				_, _ = fmt.Fprintf(out, "   Directory: %s\n", cm.GetCacheDir())
			}
		} else {
			_, _ = fmt.Fprintln(out, infoStyle.Render("ℹ️  Cache will be rebuilt on the next run"))
		}
		_, _ = fmt.Fprintln(out)

		// Summary
		_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		_, _ = fmt.Fprintln(out)
		if !targetOK && !cfg.AllowMissingTarget {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Check failed"))
			return fmt.Errorf("%w: %w", errCheckFailed, internal.ErrTargetUnresolved)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Check passed!"))
		_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Chats: %d", len(chats))))
		return nil
	},
}

// suggestExports lists exports found in the default download folders
func suggestExports(out io.Writer) {
	found, err := internal.DetectExports()
	if err != nil || len(found) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, "   Exports found on this machine:")
	for i, loc := range found {
		if i == 5 {
			_, _ = fmt.Fprintf(out, "   ... and %d more\n", len(found)-5)
			break
		}
		_, _ = fmt.Fprintf(out, "   • %s (%s)\n", loc.Path, loc.ModTime.Format("2006-01-02"))
	}
	_, _ = fmt.Fprintln(out, "   Pass one with --input")
}

func printKindCounts(out io.Writer, chats []internal.Chat) {
	counts := make(map[internal.ChatKind]int)
	for _, chat := range chats {
		counts[chat.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		_, _ = fmt.Fprintf(out, "   %s: %d\n", kind, counts[internal.ChatKind(kind)])
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addInputFlag(checkCmd.Flags())
	checkCmd.Flags().String("target-name", "", "Display name to imitate (default: detected from Saved Messages)")
	checkCmd.Flags().Bool("allow-missing-target", false, "Pass even when no target name is known")
}
