package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func (g *stubGenerator) Chat(_ context.Context, _, _ string) (string, error) {
	return g.reply, g.err
}

func TestLLM_Summarize(t *testing.T) {
	gen := &stubGenerator{reply: "plain-language summary"}
	s := NewLLM(gen)

	got, err := s.Summarize(context.Background(), "A complicated abstract.")
	require.NoError(t, err)
	assert.Equal(t, "plain-language summary", got)
	assert.Equal(t, 1, gen.calls)
}

func TestLLM_EmptyAbstractSkipsEndpoint(t *testing.T) {
	gen := &stubGenerator{reply: "should not be used"}
	s := NewLLM(gen)

	got, err := s.Summarize(context.Background(), "   \n ")
	require.NoError(t, err)
	assert.Equal(t, NoAbstractMessage, got)
	assert.Equal(t, 0, gen.calls)
}

func TestLLM_FailureTruncates(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	s := NewLLM(gen)

	long := strings.Repeat("x", 400)
	got, err := s.Summarize(context.Background(), long)
	require.NoError(t, err, "summarization failure must not stall the pipeline")
	assert.Equal(t, long[:300]+"...", got)
}

func TestTruncate_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))
}

func TestFrequency_PicksTopSentences(t *testing.T) {
	text := "Mice like cheese. Cheese experiments used mice and cheese rewards. The weather was cloudy."
	s := NewFrequency(1)

	got, err := s.Summarize(context.Background(), text)
	require.NoError(t, err)
	assert.Contains(t, got, "cheese")
	assert.NotContains(t, got, "cloudy")
}

func TestFrequency_EmptyAbstract(t *testing.T) {
	s := NewFrequency(3)
	got, err := s.Summarize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, NoAbstractMessage, got)
}

func TestFrequency_KeepsOriginalOrder(t *testing.T) {
	text := "Alpha beta gamma delta. Alpha beta gamma. Alpha beta. Unrelated filler here."
	s := NewFrequency(2)

	got, err := s.Summarize(context.Background(), text)
	require.NoError(t, err)
	first := strings.Index(got, "Alpha beta gamma delta.")
	second := strings.Index(got, "Alpha beta gamma.")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first, "selected sentences keep document order")
}
