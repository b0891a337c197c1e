// Package retriever maps free-text queries to the most relevant papers,
// using the persisted vector index when present and a brute-force cosine
// ranking over the session cache when it is not.
package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/index"
	"pubmedrag/internal/logger"
)

// DefaultTopK is the number of papers retrieved when the caller does not ask
// for a specific k.
const DefaultTopK = 3

// Retriever implements domain.Retriever.
type Retriever struct {
	embedder  domain.Embedder
	indexDir  string
	cachePath string
}

// New creates a retriever over the given index directory and session cache.
func New(embedder domain.Embedder, indexDir, cachePath string) *Retriever {
	return &Retriever{embedder: embedder, indexDir: indexDir, cachePath: cachePath}
}

// Retrieve returns up to k papers ordered most relevant first. With a
// persisted index the ranking is ascending L2 distance; on the cache
// fallback it is descending cosine similarity. No index and no cache is a
// normal empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.Paper, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	corpus, err := index.Load(r.indexDir)
	if err != nil {
		return nil, err
	}
	if corpus != nil {
		return r.searchCorpus(ctx, corpus, query, k)
	}

	logger.Debugf("no persisted index in %s, trying cache fallback", r.indexDir)
	papers, err := LoadCache(r.cachePath)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, nil
	}
	return r.bruteForce(ctx, papers, query, k)
}

func (r *Retriever) searchCorpus(ctx context.Context, corpus *index.Corpus, query string, k int) ([]domain.Paper, error) {
	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	scored := corpus.Search(vecs[0], k)
	papers := make([]domain.Paper, len(scored))
	for i, s := range scored {
		papers[i] = s.Paper
	}
	return papers, nil
}

// bruteForce ranks cached papers by cosine similarity between the query and
// each paper's summary (or abstract). Papers with empty text still get an
// embedding attempt; an all-empty candidate set ranks to nothing.
func (r *Retriever) bruteForce(ctx context.Context, papers []domain.Paper, query string, k int) ([]domain.Paper, error) {
	texts := make([]string, len(papers))
	allEmpty := true
	for i, p := range papers {
		texts[i] = domain.FallbackText(p)
		if strings.TrimSpace(texts[i]) != "" {
			allEmpty = false
		}
	}
	if allEmpty {
		return nil, nil
	}

	vecs, err := r.embedder.Embed(ctx, append([]string{query}, texts...))
	if err != nil {
		return nil, fmt.Errorf("embedding candidates: %w", err)
	}
	queryVec, docVecs := vecs[0], vecs[1:]

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(docVecs))
	for i, v := range docVecs {
		scores[i] = ranked{idx: i, score: cosine(queryVec, v)}
	}
	// stable: equal similarities keep cache order
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]domain.Paper, k)
	for i := 0; i < k; i++ {
		out[i] = papers[scores[i].idx]
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
