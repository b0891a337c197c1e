// Package index implements an exact nearest-neighbour index over embedding
// vectors, persisted to disk together with the paper metadata it was built
// from. Corpora are small (tens to low hundreds of papers), so a flat
// brute-force structure beats any approximate index here.
package index

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyInput is returned when building an index from zero vectors.
// "Nothing to search" is a normal retrieval outcome; an empty build request
// is not.
var ErrEmptyInput = errors.New("no vectors to index")

// Hit is one search result: a position into the parallel metadata list and
// the squared L2 distance to the query.
type Hit struct {
	Position int
	Distance float32
}

// Flat is an exact L2 nearest-neighbour structure. It is an immutable
// snapshot: vectors are copied in at build time and never mutated.
type Flat struct {
	dim     int
	vectors [][]float32
}

// Build constructs a flat index from the given vectors. Insertion order is
// preserved: position i in search results refers to vectors[i].
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyInput
	}
	dim := len(vectors[0])
	copied := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
		row := make([]float32, dim)
		copy(row, v)
		copied[i] = row
	}
	return &Flat{dim: dim, vectors: copied}, nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dimension returns the vector dimensionality.
func (f *Flat) Dimension() int { return f.dim }

// Search returns the k nearest neighbours by ascending squared L2 distance.
// If k exceeds the index size all entries are returned. Ties keep insertion
// order.
func (f *Flat) Search(query []float32, k int) []Hit {
	if k <= 0 {
		return nil
	}
	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Position: i, Distance: l2Squared(query, v)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}

func l2Squared(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	// unmatched tail counts as distance from zero
	for i := n; i < len(a); i++ {
		sum += a[i] * a[i]
	}
	for i := n; i < len(b); i++ {
		sum += b[i] * b[i]
	}
	return sum
}
