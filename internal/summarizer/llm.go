// Package summarizer turns paper abstracts into short summaries, either via
// the generation endpoint or with a local extractive fallback.
package summarizer

import (
	"context"
	"strings"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/logger"
)

// NoAbstractMessage is stored as the summary of papers without an abstract.
const NoAbstractMessage = "No abstract to summarize."

const summaryPrompt = "Summarize this research paper abstract in simple terms:\n\n"

// fallbackLimit bounds the truncation summary used when the endpoint fails.
const fallbackLimit = 300

// LLM summarizes abstracts through a generation endpoint. Endpoint failures
// degrade to a truncated abstract so the indexing pipeline never stalls on
// summarization.
type LLM struct {
	gen domain.Generator
}

// NewLLM creates an LLM-backed summarizer.
func NewLLM(gen domain.Generator) *LLM {
	return &LLM{gen: gen}
}

// Summarize returns a plain-language summary of the abstract.
func (s *LLM) Summarize(ctx context.Context, abstract string) (string, error) {
	text := strings.TrimSpace(abstract)
	if text == "" {
		return NoAbstractMessage, nil
	}
	out, err := s.gen.Generate(ctx, summaryPrompt+text)
	if err != nil {
		logger.Warnf("llm summarization failed, truncating abstract: %v", err)
		return Truncate(text), nil
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return Truncate(text), nil
	}
	return out, nil
}

// Truncate is the degraded summary: the head of the abstract.
func Truncate(text string) string {
	if len(text) > fallbackLimit {
		return text[:fallbackLimit] + "..."
	}
	return text
}
