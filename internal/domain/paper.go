package domain

import "strings"

// Paper is a single PubMed article with the metadata the pipeline extracts.
// Papers are frozen once they enter an index generation; rebuilding the index
// is the only way to reflect changes.
type Paper struct {
	PubmedID            string   `json:"pubmed_id"`
	Title               string   `json:"title"`
	PublicationDate     string   `json:"publication_date"`
	Authors             string   `json:"authors"`
	Abstract            string   `json:"abstract"`
	Summary             string   `json:"summary,omitempty"`
	NonAcademicAuthors  []string `json:"non_academic_authors,omitempty"`
	CompanyAffiliations []string `json:"company_affiliations,omitempty"`
	CorrespondingEmails []string `json:"corresponding_emails,omitempty"`
}

// ScoredPaper is a retrieval hit. Score is the ranking value of the search
// that produced it: ascending L2 distance for index search, descending cosine
// similarity for the brute-force fallback.
type ScoredPaper struct {
	Paper Paper
	Score float64
}

// EmbedText is the canonical text embedded for a paper at index-build time.
// The same format must be used for every generation so that rebuilds are
// comparable.
func EmbedText(p Paper) string {
	summary := p.Summary
	if summary == "" {
		summary = p.Abstract
	}
	return "Title: " + p.Title + ". Authors: " + p.Authors + ". Summary: " + summary
}

// FallbackText is the text embedded for brute-force ranking when no
// persisted index exists: the summary if present, otherwise the abstract.
func FallbackText(p Paper) string {
	if strings.TrimSpace(p.Summary) != "" {
		return p.Summary
	}
	return p.Abstract
}
