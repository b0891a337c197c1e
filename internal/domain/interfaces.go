package domain

import "context"

// Embedder converts free text into fixed-dimension numeric vectors.
// Single-query embedding goes through the same Embed call with a one-element
// slice so that query vectors live in the same space as document vectors.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces text from a language-model endpoint.
type Generator interface {
	// Generate sends a raw completion prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Chat sends a system+user message pair.
	Chat(ctx context.Context, system, user string) (string, error)
}

// Summarizer produces a short summary of a paper abstract.
type Summarizer interface {
	Summarize(ctx context.Context, abstract string) (string, error)
}

// Source fetches paper metadata for a search query. An empty result list is a
// normal outcome, not an error; only transport failures are errors.
type Source interface {
	Fetch(ctx context.Context, query string, limit int) ([]Paper, error)
}

// Retriever maps a free-text query to the most relevant papers,
// most relevant first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Paper, error)
}

// Synthesizer turns a question plus retrieved papers into a grounded
// natural-language answer. The returned string is always user-facing, even
// when the generation endpoint could not be reached.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, papers []Paper) (string, error)
}
