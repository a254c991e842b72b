package cmd

import (
	"github.com/iksnae/chatprep/internal"
	"github.com/spf13/pflag"
)

// Flag defaults are informational; config.Load applies the real defaults
// so unset flags never shadow env or file values.

func addInputFlag(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "./data/result.json", "Path to the Telegram export (result.json)")
}

func addPipelineFlags(fs *pflag.FlagSet) {
	fs.String("target-name", "", "Display name to imitate (default: detected from Saved Messages)")
	fs.Int("last-x-months", internal.DefaultLastXMonths, "Only keep messages from the last N 30-day months")
	fs.Int("session-minutes-threshold", internal.DefaultSessionMinutesThreshold, "Pause in minutes that starts a new session")
	fs.String("merge-delimiter", internal.DefaultMergeDelimiter, "Separator placed before every merged message")
	fs.String("start-marker", internal.DefaultStartMarker, "Token opening each turn")
	fs.String("end-marker", internal.DefaultEndMarker, "Token closing each turn")
	fs.Int("workers", 0, "Chats processed in parallel (default: number of CPUs)")
	fs.Bool("allow-missing-target", false, "Continue with an empty dataset when no target name is known")
}
