// Package synthesis turns a question plus retrieved papers into a single
// grounded prompt and delegates to the generation endpoint with bounded
// retry.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/llm"
	"pubmedrag/internal/logger"
)

// User-facing messages for the two degraded outcomes. The conversational
// loop prints these and continues; they are never errors.
const (
	NoPapersMessage = "No relevant papers found for your question."
	FailedMessage   = "The language model failed to respond after multiple attempts. Please try again."
)

// DefaultMaxAttempts bounds endpoint calls per question.
const DefaultMaxAttempts = 3

// Synthesizer implements domain.Synthesizer.
type Synthesizer struct {
	gen         domain.Generator
	maxAttempts int
}

// New creates a synthesizer. maxAttempts <= 0 selects the default of 3.
func New(gen domain.Generator, maxAttempts int) *Synthesizer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Synthesizer{gen: gen, maxAttempts: maxAttempts}
}

// Synthesize answers the query from the given papers only. An empty paper
// list short-circuits without contacting the endpoint. Attempts are
// immediate (the endpoint is assumed local); the first success wins.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, papers []domain.Paper) (string, error) {
	if len(papers) == 0 {
		return NoPapersMessage, nil
	}

	prompt := BuildPrompt(query, papers)
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		answer, err := s.gen.Chat(ctx, llm.SystemPrompt, prompt)
		if err == nil {
			return strings.TrimSpace(answer), nil
		}
		lastErr = err
		logger.Debugf("synthesis attempt %d/%d failed: %v", attempt, s.maxAttempts, err)
	}
	logger.Warnf("synthesis gave up after %d attempts: %v", s.maxAttempts, lastErr)
	return FailedMessage, nil
}

// BuildPrompt formats the retrieved papers and the question into one grounded
// prompt with a context-only instruction.
func BuildPrompt(query string, papers []domain.Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\n", query)
	b.WriteString("Research papers related to this question:\n\n")
	for i, p := range papers {
		summary := p.Summary
		if summary == "" {
			summary = p.Abstract
		}
		fmt.Fprintf(&b, "Paper %d:\n", i+1)
		fmt.Fprintf(&b, "PubMed ID: %s\n", p.PubmedID)
		fmt.Fprintf(&b, "Title: %s\n", p.Title)
		fmt.Fprintf(&b, "Authors: %s\n", p.Authors)
		fmt.Fprintf(&b, "Abstract: %s\n", p.Abstract)
		fmt.Fprintf(&b, "Summary: %s\n\n", summary)
	}
	b.WriteString("Answer the question based only on the papers above. ")
	b.WriteString("If they do not contain the answer, say so.")
	return b.String()
}
