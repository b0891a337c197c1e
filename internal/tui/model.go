// Package tui renders the interactive research assistant session with
// Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pubmedrag/internal/chat"
	"pubmedrag/internal/domain"
)

// Model is the Bubble Tea model wrapping a chat session.
type Model struct {
	session    *chat.Session
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	ready      bool
}

// New creates a TUI model around an existing session. When the session comes
// pre-seeded with papers they are shown as the opening transcript.
func New(session *chat.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the papers, or type 'exit'"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	m := Model{
		session:  session,
		input:    ti,
		viewport: vp,
		status:   "Ready. Type a question and press Enter.",
	}
	if papers := session.Papers(); len(papers) > 0 {
		m.transcript = append(m.transcript, renderPapers(papers))
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and advances the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.status = chat.EmptyInputMessage
		return m, nil
	}
	m.input.SetValue("")
	m.transcript = append(m.transcript, questionStyle.Render("You: "+text))

	reply := m.session.Handle(context.Background(), text)
	if len(reply.Papers) > 0 {
		m.transcript = append(m.transcript, renderPapers(reply.Papers))
	}
	if reply.Text != "" {
		m.transcript = append(m.transcript, answerStyle.Render("Assistant: ")+reply.Text)
	}
	m.status = fmt.Sprintf("Session: %s", m.session.State())
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()

	if reply.Done {
		return m, tea.Quit
	}
	return m, nil
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("PubMed Research Assistant")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	titleStyle         = lipgloss.NewStyle().Bold(true)
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderPapers(papers []domain.Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d relevant papers:\n", len(papers))
	for i, p := range papers {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, titleStyle.Render(p.Title))
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render("PubMed ID "+p.PubmedID+" · "+p.PublicationDate))
		fmt.Fprintf(&b, "    %s\n", p.Authors)
		if p.Summary != "" {
			fmt.Fprintf(&b, "    %s\n", p.Summary)
		}
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
