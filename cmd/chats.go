package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chatprep/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List chats in the export",
	Long: `List every supported chat in the export with its kind, message count and
last activity, followed by the target detected from Saved Messages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		chats, target, _, err := internal.LoadChatsCached(cfg.CacheManager(), cfg.Input)
		if err != nil {
			return err
		}

		displayChats(cmd.OutOrStdout(), chats, target.WithOverride(cfg.TargetName), time.Now())
		return nil
	},
}

func displayChats(out io.Writer, chats []internal.Chat, target internal.Target, now time.Time) {
	if len(chats) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No chats found"))
	} else {
		_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d chat(s)", len(chats))))
		_, _ = fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("#")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Kind")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Last activity")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

		for i := range chats {
			chat := &chats[i]
			name := chat.Name
			if name == "" {
				name = "Untitled"
			}
			if len([]rune(name)) > 40 {
				name = string([]rune(name)[:37]) + "..."
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				idStyle.Render(strconv.Itoa(chat.Position)),
				name,
				kindStyle.Render(string(chat.Kind)),
				countStyle.Render(strconv.Itoa(len(chat.Messages))),
				dateStyle.Render(formatWhen(chat.LastActivity(), now)),
			)
		}
		_ = w.Flush()
	}

	_, _ = fmt.Fprintln(out)
	if target.Resolved() {
		_, _ = fmt.Fprintf(out, "Target: %s\n", countStyle.Render(target.Name))
	} else {
		_, _ = fmt.Fprintln(out, idStyle.Render("Target: not detected (use --target-name)"))
	}
}

// formatWhen renders t relative to now, coarser the older it is
func formatWhen(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(chatsCmd)
	addInputFlag(chatsCmd.Flags())
	chatsCmd.Flags().String("target-name", "", "Display name to imitate (default: detected from Saved Messages)")
}
