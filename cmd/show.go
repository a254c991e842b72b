package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/chatprep/internal"
	"github.com/iksnae/chatprep/internal/export"
	"github.com/spf13/cobra"
)

var (
	limit int
	plain bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <chat>",
	Short: "Preview the sessions kept for one chat",
	Long: `Run the pipeline on a single chat and display the sessions that would be
written to the dataset, with consecutive messages already merged into turns.

<chat> is the chat name, or its position as printed by 'chatprep chats'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		chats, detected, _, err := internal.LoadChatsCached(cfg.CacheManager(), cfg.Input)
		if err != nil {
			return err
		}

		chat, ok := findChat(chats, args[0])
		if !ok {
			return fmt.Errorf("chat not found: %s (use 'chatprep chats' to see available chats)", args[0])
		}

		opts := cfg.Options()
		pipeline := internal.NewPipeline(opts)
		target, err := pipeline.ResolveTarget(detected)
		if err != nil {
			return err
		}

		var sessions []internal.Session
		window := internal.FilterByDate([]internal.Chat{chat}, internal.Cutoff(opts.Now(), opts.LastXMonths))
		if len(window) > 0 {
			sessions = pipeline.TransformChat(window[0], target.Name).Sessions
		}

		md := renderChatMarkdown(chat, target, sessions, limit)
		if plain {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			internal.LogDebug("Markdown renderer unavailable: %v", err)
			_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		rendered, err := renderer.Render(md)
		if err != nil {
			internal.LogDebug("Failed to render markdown: %v", err)
			rendered = md
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

// findChat matches by exact name first, then by position
func findChat(chats []internal.Chat, key string) (internal.Chat, bool) {
	for _, chat := range chats {
		if chat.Name == key {
			return chat, true
		}
	}
	if pos, err := strconv.Atoi(key); err == nil {
		for _, chat := range chats {
			if chat.Position == pos {
				return chat, true
			}
		}
	}
	return internal.Chat{}, false
}

func renderChatMarkdown(chat internal.Chat, target internal.Target, sessions []internal.Session, limit int) string {
	var b strings.Builder

	name := chat.Name
	if name == "" {
		name = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "- **Kind:** %s\n- **Target:** %s\n- **Sessions kept:** %d\n\n", chat.Kind, target.Name, len(sessions))

	if len(sessions) == 0 {
		b.WriteString("_No session in the time window contains a reply from the target._\n")
		return b.String()
	}

	shown := sessions
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	for i, session := range shown {
		fmt.Fprintf(&b, "## Session %d (%s)\n\n", i+1, session[0].Timestamp.Format(time.DateTime))
		for _, msg := range session {
			fence := export.Fence(msg.Text)
			fmt.Fprintf(&b, "**%s** _%s_\n\n%s\n%s\n%s\n\n", msg.Author, msg.Timestamp.Format("15:04"), fence, msg.Text, fence)
		}
	}

	if len(shown) < len(sessions) {
		fmt.Fprintf(&b, "_... and %d more session(s)_\n", len(sessions)-len(shown))
	}

	return b.String()
}

func init() {
	rootCmd.AddCommand(showCmd)
	addInputFlag(showCmd.Flags())
	addPipelineFlags(showCmd.Flags())
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N sessions (0 for all)")
	showCmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown instead of rendering it")
}
