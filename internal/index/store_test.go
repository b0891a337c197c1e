package index

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubmedrag/internal/domain"
)

func buildTestCorpus(t *testing.T, n int) (*Flat, []domain.Paper) {
	t.Helper()
	vectors := make([][]float32, n)
	papers := make([]domain.Paper, n)
	for i := range vectors {
		v := make([]float32, n)
		v[i] = 1 // orthogonal basis
		vectors[i] = v
		papers[i] = domain.Paper{
			PubmedID: fmt.Sprintf("pmid-%d", i),
			Title:    fmt.Sprintf("Paper %d", i),
		}
	}
	f, err := Build(vectors)
	require.NoError(t, err)
	return f, papers
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	f, papers := buildTestCorpus(t, 4)

	require.NoError(t, Save(dir, f, papers))

	corpus, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, corpus)
	assert.Equal(t, 4, corpus.Len())

	// positional invariant: searching with paper i's vector returns paper i
	for i := 0; i < 4; i++ {
		query := make([]float32, 4)
		query[i] = 1
		got := corpus.Search(query, 1)
		require.Len(t, got, 1)
		assert.Equal(t, fmt.Sprintf("pmid-%d", i), got[0].Paper.PubmedID)
		assert.Equal(t, float64(0), got[0].Score)
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	corpus, err := Load(filepath.Join(t.TempDir(), "never-written"))
	require.NoError(t, err)
	assert.Nil(t, corpus)
}

func TestLoad_MissingMetadataPartner(t *testing.T) {
	dir := t.TempDir()
	f, papers := buildTestCorpus(t, 2)
	require.NoError(t, Save(dir, f, papers))
	require.NoError(t, os.Remove(filepath.Join(dir, MetaFileName)))

	corpus, err := Load(dir)
	require.NoError(t, err)
	assert.Nil(t, corpus, "index without metadata must behave as no index")
}

func TestLoad_MissingIndexPartner(t *testing.T) {
	dir := t.TempDir()
	f, papers := buildTestCorpus(t, 2)
	require.NoError(t, Save(dir, f, papers))
	require.NoError(t, os.Remove(filepath.Join(dir, IndexFileName)))

	corpus, err := Load(dir)
	require.NoError(t, err)
	assert.Nil(t, corpus)
}

func TestLoad_CorruptIndexArtifact(t *testing.T) {
	dir := t.TempDir()
	f, papers := buildTestCorpus(t, 2)
	require.NoError(t, Save(dir, f, papers))
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFileName), []byte("junk"), 0o644))

	corpus, err := Load(dir)
	require.NoError(t, err)
	assert.Nil(t, corpus)
}

func TestLoad_MetadataSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	f, papers := buildTestCorpus(t, 3)
	require.NoError(t, Save(dir, f, papers))
	// overwrite metadata with a shorter list
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetaFileName),
		[]byte(`[{"pubmed_id":"only-one","title":"t"}]`), 0o644))

	corpus, err := Load(dir)
	require.NoError(t, err)
	assert.Nil(t, corpus, "mismatched pair must not load half-consistent")
}

func TestSave_LengthMismatch(t *testing.T) {
	f, papers := buildTestCorpus(t, 3)
	err := Save(t.TempDir(), f, papers[:2])
	assert.Error(t, err)
}

func TestSave_OverwritesPreviousGeneration(t *testing.T) {
	dir := t.TempDir()
	f1, papers1 := buildTestCorpus(t, 2)
	require.NoError(t, Save(dir, f1, papers1))

	f2, papers2 := buildTestCorpus(t, 5)
	require.NoError(t, Save(dir, f2, papers2))

	corpus, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, corpus)
	assert.Equal(t, 5, corpus.Len())
}

func TestNewCorpus_Mismatch(t *testing.T) {
	f, papers := buildTestCorpus(t, 2)
	_, err := NewCorpus(f, papers[:1])
	assert.Error(t, err)
}
