// Package export writes fetched papers to CSV, Markdown or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"pubmedrag/internal/domain"
)

// Formats supported by Save.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// Save writes papers to path in the given format.
func Save(path, format string, papers []domain.Paper) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return WriteCSV(f, papers)
	case FormatMarkdown:
		return WriteMarkdown(f, papers)
	case FormatJSON:
		return WriteJSON(f, papers)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteCSV writes one row per paper with the headline metadata columns.
func WriteCSV(w io.Writer, papers []domain.Paper) error {
	cw := csv.NewWriter(w)
	header := []string{
		"pubmed_id", "title", "publication_date", "authors", "abstract",
		"summary", "company_affiliations", "corresponding_emails",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range papers {
		row := []string{
			p.PubmedID, p.Title, p.PublicationDate, p.Authors, p.Abstract,
			p.Summary,
			strings.Join(p.CompanyAffiliations, "; "),
			strings.Join(p.CorrespondingEmails, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown writes a readable document with one section per paper.
func WriteMarkdown(w io.Writer, papers []domain.Paper) error {
	for _, p := range papers {
		if _, err := fmt.Fprintf(w, "# %s\n\n", p.Title); err != nil {
			return err
		}
		fmt.Fprintf(w, "**PubMed ID:** %s  \n", p.PubmedID)
		fmt.Fprintf(w, "**Published:** %s  \n", p.PublicationDate)
		fmt.Fprintf(w, "**Authors:** %s\n\n", p.Authors)
		fmt.Fprintf(w, "**Abstract:**\n%s\n\n", p.Abstract)
		if p.Summary != "" {
			fmt.Fprintf(w, "**Summary:**\n%s\n\n", p.Summary)
		}
		if _, err := fmt.Fprint(w, "---\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the raw paper list, indented.
func WriteJSON(w io.Writer, papers []domain.Paper) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}
