package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pubmedrag/internal/chat"
	"pubmedrag/internal/service"
	"pubmedrag/internal/tui"
)

var (
	chatQuery string
	chatFile  string
	chatPlain bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-answering session",
	Long: `Opens a conversational session over the indexed papers. The first
question retrieves the most relevant papers; follow-ups keep talking about
those papers until you type 'exit'.

With --query the session answers one question and exits. With --file the
session is seeded from a previously exported paper list instead of the index.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatQuery, "query", "q", "", "answer a single question and exit")
	chatCmd.Flags().StringVarP(&chatFile, "file", "f", "", "seed the session from a JSON paper list")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "line-based I/O instead of the full-screen UI")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	session, err := newChatSession()
	if err != nil {
		return err
	}

	if chatQuery != "" {
		reply := session.Handle(cmd.Context(), chatQuery)
		if len(reply.Papers) > 0 {
			printPaperList(cmd.OutOrStdout(), reply.Papers)
		}
		cmd.Println(reply.Text)
		return nil
	}

	if chatPlain {
		return chat.RunLoop(cmd.Context(), session, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	program := tea.NewProgram(tui.New(session), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running chat UI: %w", err)
	}
	return nil
}

func newChatSession() (*chat.Session, error) {
	if chatFile != "" {
		papers, err := service.LoadPapers(chatFile)
		if err != nil {
			return nil, fmt.Errorf("loading papers from %s: %w", chatFile, err)
		}
		return chat.NewSeededSession(getSynthesizer(), papers), nil
	}
	return chat.NewSession(getRetriever(), getSynthesizer(), cfg.Chat.TopK), nil
}
