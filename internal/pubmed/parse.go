package pubmed

import (
	"encoding/xml"
	"io"
	"strings"

	"pubmedrag/internal/affiliation"
	"pubmedrag/internal/domain"
)

// articleSet mirrors the subset of the PubMed EFetch XML the pipeline needs.
type articleSet struct {
	Articles []article `xml:"PubmedArticle"`
}

type article struct {
	PMID     string `xml:"MedlineCitation>PMID"`
	Title    string `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract struct {
		Texts []string `xml:"AbstractText"`
	} `xml:"MedlineCitation>Article>Abstract"`
	PubYear       string   `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	CompletedYear string   `xml:"MedlineCitation>DateCompleted>Year"`
	Authors       []author `xml:"MedlineCitation>Article>AuthorList>Author"`
}

type author struct {
	LastName     string   `xml:"LastName"`
	ForeName     string   `xml:"ForeName"`
	Affiliations []string `xml:"AffiliationInfo>Affiliation"`
}

// ParseArticleSet decodes a PubMed EFetch XML document into papers, with
// affiliation classification applied per article.
func ParseArticleSet(r io.Reader) ([]domain.Paper, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(set.Articles))
	for _, art := range set.Articles {
		papers = append(papers, art.toPaper())
	}
	return papers, nil
}

func (a article) toPaper() domain.Paper {
	title := a.Title
	if title == "" {
		title = "No title available"
	}
	abstract := strings.TrimSpace(strings.Join(a.Abstract.Texts, " "))
	if abstract == "" {
		abstract = "No abstract available"
	}
	pubDate := a.PubYear
	if pubDate == "" {
		pubDate = a.CompletedYear
	}
	if pubDate == "" {
		pubDate = "Unknown"
	}

	var names []string
	var affiliations []string
	for _, au := range a.Authors {
		name := strings.TrimSpace(au.ForeName + " " + au.LastName)
		if name != "" {
			names = append(names, name)
		}
		affiliations = append(affiliations, au.Affiliations...)
	}
	authors := strings.Join(names, ", ")
	if authors == "" {
		authors = "Unknown"
	}

	nonAcademic, companies, emails := affiliation.Classify(affiliations)

	return domain.Paper{
		PubmedID:            a.PMID,
		Title:               title,
		PublicationDate:     pubDate,
		Authors:             authors,
		Abstract:            abstract,
		NonAcademicAuthors:  nonAcademic,
		CompanyAffiliations: companies,
		CorrespondingEmails: emails,
	}
}
