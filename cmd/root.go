package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/chatprep/internal"
	"github.com/iksnae/chatprep/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatprep",
	Short: "Turn a Telegram chat export into a chat-model training dataset",
	Long: `A CLI tool that prepares fine-tuning data from a Telegram "Export chat history" JSON file.

Chats are filtered to a recent time window, split into sessions at long pauses,
consecutive messages from one author are merged into turns, and every session
the target person replies in becomes one ChatML-formatted training record.

Quick Start:
  chatprep chats                               # List chats in the export
  chatprep show "Bob"                          # Preview the sessions kept for a chat
  chatprep prepare -i result.json -o out.jsonl # Write the dataset

Settings can also come from CHATPREP_* environment variables, a .env file or
chatprep.yaml.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves settings for cmd from its flags, the environment and
// the config file
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./"+config.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Cache directory (default ~/.chatprep-cache)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Always parse the export instead of using the cache")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
