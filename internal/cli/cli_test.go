package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubmedrag/internal/config"
	"pubmedrag/internal/domain"
	"pubmedrag/internal/retriever"
)

type stubSource struct{ papers []domain.Paper }

func (s *stubSource) Fetch(_ context.Context, _ string, _ int) ([]domain.Paper, error) {
	return s.papers, nil
}

type stubEmbedder struct{ dim int }

func (e *stubEmbedder) Name() string   { return "stub" }
func (e *stubEmbedder) Dimension() int { return e.dim }

func (e *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, e.dim)
		vec[i%e.dim] = 1
		out[i] = vec
	}
	return out, nil
}

type stubRetriever struct{ papers []domain.Paper }

func (r *stubRetriever) Retrieve(_ context.Context, _ string, _ int) ([]domain.Paper, error) {
	return r.papers, nil
}

type stubSynthesizer struct{ answer string }

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string, _ []domain.Paper) (string, error) {
	return s.answer, nil
}

var cliPapers = []domain.Paper{
	{PubmedID: "11", Title: "Alpha study", Authors: "Doe J", Abstract: "About alpha.", PublicationDate: "2020"},
	{PubmedID: "22", Title: "Beta study", Authors: "Roe R", Abstract: "About beta.", PublicationDate: "2021"},
}

// setupTest gives each test an isolated config and resets the wired services
// and flag state afterwards.
func setupTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	loaded, err := config.Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	loaded.Index.Dir = filepath.Join(dir, "store")
	loaded.Index.CachePath = filepath.Join(dir, "cache.json")
	loaded.LLM.Enabled = false
	cfg = loaded

	t.Cleanup(func() {
		cfg = nil
		paperSource, embedder, generator = nil, nil, nil
		searcher, answerer = nil, nil
		fetchLimit, fetchOut, fetchFormat = 0, "", "csv"
		searchTopK, searchExplain = 0, false
		chatQuery, chatFile, chatPlain = "", "", false
		indexFile = ""
		exportFormat = "csv"
	})
	return dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSearchCommand(t *testing.T) {
	setupTest(t)
	searcher = &stubRetriever{papers: cliPapers}

	out := execute(t, "search", "alpha")

	assert.Contains(t, out, "Top 2 relevant papers")
	assert.Contains(t, out, "Alpha study")
	assert.Contains(t, out, "PubMed ID: 11")
}

func TestSearchCommand_NoResults(t *testing.T) {
	setupTest(t)
	searcher = &stubRetriever{}

	out := execute(t, "search", "anything")
	assert.Contains(t, out, "No relevant papers found")
}

func TestSearchCommand_Explain(t *testing.T) {
	setupTest(t)
	searcher = &stubRetriever{papers: cliPapers}
	answerer = &stubSynthesizer{answer: "because alpha"}

	out := execute(t, "search", "alpha", "--explain")
	assert.Contains(t, out, "because alpha")
}

func TestFetchCommand_IndexesAndExports(t *testing.T) {
	dir := setupTest(t)
	paperSource = &stubSource{papers: cliPapers}
	embedder = &stubEmbedder{dim: 4}
	exportPath := filepath.Join(dir, "out.json")

	out := execute(t, "fetch", "alpha beta", "-o", exportPath, "--format", "json")

	assert.Contains(t, out, "Fetched and indexed 2 papers")
	_, err := os.Stat(exportPath)
	assert.NoError(t, err, "export file written")

	cached, err := retriever.LoadCache(cfg.Index.CachePath)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestFetchCommand_NoPapers(t *testing.T) {
	setupTest(t)
	paperSource = &stubSource{}
	embedder = &stubEmbedder{dim: 4}

	out := execute(t, "fetch", "nothing")
	assert.Contains(t, out, "No papers found")
}

func TestExportCommand(t *testing.T) {
	dir := setupTest(t)
	require.NoError(t, retriever.SaveCache(cfg.Index.CachePath, cliPapers))
	target := filepath.Join(dir, "papers.md")

	out := execute(t, "export", target, "--format", "md")

	assert.Contains(t, out, "Exported 2 papers")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Alpha study")
}

func TestIndexCommand_FromFile(t *testing.T) {
	dir := setupTest(t)
	embedder = &stubEmbedder{dim: 4}
	listPath := filepath.Join(dir, "papers.json")
	require.NoError(t, retriever.SaveCache(listPath, cliPapers))

	out := execute(t, "index", "--file", listPath)

	assert.Contains(t, out, "Indexed 2 papers")
	cached, err := retriever.LoadCache(cfg.Index.CachePath)
	require.NoError(t, err)
	assert.Len(t, cached, 2, "imported list becomes the session cache")
}

func TestChatCommand_SingleQuery(t *testing.T) {
	setupTest(t)
	searcher = &stubRetriever{papers: cliPapers}
	answerer = &stubSynthesizer{answer: "grounded answer"}

	out := execute(t, "chat", "--query", "what is alpha?")

	assert.Contains(t, out, "Alpha study")
	assert.Contains(t, out, "grounded answer")
}
