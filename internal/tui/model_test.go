package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubmedrag/internal/chat"
	"pubmedrag/internal/domain"
)

type stubSynthesizer struct{ answer string }

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string, _ []domain.Paper) (string, error) {
	return s.answer, nil
}

var tuiPapers = []domain.Paper{
	{PubmedID: "1", Title: "Alpha study", Authors: "Doe J", PublicationDate: "2020"},
}

func seededModel(answer string) Model {
	return New(chat.NewSeededSession(&stubSynthesizer{answer: answer}, tuiPapers))
}

func TestNew_SeedsTranscriptFromSessionPapers(t *testing.T) {
	m := seededModel("ans")
	require.Len(t, m.transcript, 1)
	assert.Contains(t, m.transcript[0], "Alpha study")
}

func TestUpdate_WindowSizeMakesViewRenderable(t *testing.T) {
	m := seededModel("ans")
	assert.Equal(t, "Loading...", m.View())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "PubMed Research Assistant")
}

func TestUpdate_EnterSubmitsAndRecordsAnswer(t *testing.T) {
	m := seededModel("grounded answer")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	m.input.SetValue("what does the paper say?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Nil(t, cmd, "a normal turn keeps the program running")
	require.NotEmpty(t, m.transcript)
	assert.Contains(t, m.transcript[len(m.transcript)-1], "grounded answer")
	assert.Empty(t, m.input.Value(), "input cleared after submit")
}

func TestUpdate_ExitTokenQuits(t *testing.T) {
	m := seededModel("ans")
	m.input.SetValue("exit")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := seededModel("ans")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
