// Package service wires fetching, summarization, embedding and persistence
// into the end-to-end ingest pipeline.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/index"
	"pubmedrag/internal/logger"
	"pubmedrag/internal/retriever"
)

// Pipeline fetches papers for a query, summarizes them and builds a new
// persisted index generation plus the session cache.
type Pipeline struct {
	source     domain.Source
	summarizer domain.Summarizer
	embedder   domain.Embedder
	indexDir   string
	cachePath  string
}

// New creates a pipeline. The summarizer may be nil, in which case abstracts
// are kept unsummarized.
func New(source domain.Source, summarizer domain.Summarizer, embedder domain.Embedder, indexDir, cachePath string) *Pipeline {
	return &Pipeline{
		source:     source,
		summarizer: summarizer,
		embedder:   embedder,
		indexDir:   indexDir,
		cachePath:  cachePath,
	}
}

// FetchAndIndex runs the full ingest: fetch up to limit papers, summarize
// each abstract, write the session cache, then embed and persist a fresh
// index generation. The returned papers carry their summaries. A query with
// no results is a normal empty outcome.
func (p *Pipeline) FetchAndIndex(ctx context.Context, query string, limit int) ([]domain.Paper, error) {
	papers, err := p.source.Fetch(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching papers: %w", err)
	}
	if len(papers) == 0 {
		return nil, nil
	}
	logger.Debugf("fetched %d papers for %q", len(papers), query)

	p.summarizeAll(ctx, papers)

	// the cache is written before indexing so a failed embed run still
	// leaves retrieval a fallback corpus
	if err := retriever.SaveCache(p.cachePath, papers); err != nil {
		return nil, fmt.Errorf("writing session cache: %w", err)
	}

	if err := p.Reindex(ctx, papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// Reindex embeds the given papers and atomically replaces the persisted
// index generation with one built from them.
func (p *Pipeline) Reindex(ctx context.Context, papers []domain.Paper) error {
	texts := make([]string, len(papers))
	for i, paper := range papers {
		texts[i] = domain.EmbedText(paper)
	}
	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding papers: %w", err)
	}
	flat, err := index.Build(vectors)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	if err := index.Save(p.indexDir, flat, papers); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}
	return nil
}

// summarizeAll fills Summary on each paper in place. Summarization is best
// effort; a failed summary leaves the field empty and the abstract is used
// downstream instead.
func (p *Pipeline) summarizeAll(ctx context.Context, papers []domain.Paper) {
	if p.summarizer == nil {
		return
	}
	for i := range papers {
		summary, err := p.summarizer.Summarize(ctx, papers[i].Abstract)
		if err != nil {
			logger.Warnf("summarizing paper %s: %v", papers[i].PubmedID, err)
			continue
		}
		papers[i].Summary = summary
	}
}

// LoadPapers reads a paper list from a JSON file, for sessions seeded from a
// previous export instead of a live fetch.
func LoadPapers(path string) ([]domain.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var papers []domain.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return papers, nil
}
