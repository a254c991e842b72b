package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/iksnae/chatprep/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so tests do not leak state
// through the shared command tree
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), err
}

// recentExport writes an export whose messages fall inside the default window
func recentExport(t *testing.T, dir string, withSelf bool) string {
	t.Helper()
	base := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	alice := testutil.UserID(42)

	b := testutil.NewExport()
	if withSelf {
		b.Self(42, testutil.Msg(base, "Alice", alice, "note to self"))
	}
	return b.
		Chat("Bob", "personal_chat",
			testutil.Msg(base, "Bob", testutil.UserID(2), "question"),
			testutil.Msg(base.Add(time.Minute), "Alice", alice, "answer"),
			testutil.Msg(base.Add(3*time.Hour), "Bob", testutil.UserID(2), "anyone?"),
		).
		Chat("Team", "private_group",
			testutil.Msg(base, "Carol", testutil.UserID(3), "standup"),
			testutil.Msg(base.Add(time.Minute), "Bob", testutil.UserID(2), "here"),
			testutil.Msg(base.Add(2*time.Minute), "Alice", alice, "me too"),
			testutil.Msg(base.Add(3*time.Minute), "Alice", alice, "late"),
		).
		WriteFile(t, dir)
}
