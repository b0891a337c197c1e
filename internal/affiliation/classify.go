// Package affiliation classifies author affiliation strings into academic and
// industry groups and extracts contact emails.
package affiliation

import (
	"regexp"
	"strings"
)

var academicKeywords = []string{
	"university", "institute", "school", "college", "hospital",
	"faculty", "department", "center", "centre",
}

var companyKeywords = []string{
	"inc", "ltd", "gmbh", "llc", "corp", "biotech", "pharma", "therapeutics",
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)

// IsAcademic reports whether the affiliation looks like an academic
// institution.
func IsAcademic(affiliation string) bool {
	lower := strings.ToLower(affiliation)
	for _, kw := range academicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsCompany reports whether the affiliation looks like a commercial entity.
func IsCompany(affiliation string) bool {
	lower := strings.ToLower(affiliation)
	for _, kw := range companyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractEmails returns all email addresses found in the text.
func ExtractEmails(text string) []string {
	return emailPattern.FindAllString(text, -1)
}

// Classify splits affiliation strings into non-academic affiliations, company
// affiliations and contact emails. Emails are deduplicated preserving first
// occurrence order.
func Classify(affiliations []string) (nonAcademic, companies, emails []string) {
	seen := make(map[string]struct{})
	for _, aff := range affiliations {
		if !IsAcademic(aff) {
			nonAcademic = append(nonAcademic, aff)
		}
		if IsCompany(aff) {
			companies = append(companies, aff)
		}
		for _, email := range ExtractEmails(aff) {
			if _, ok := seen[email]; ok {
				continue
			}
			seen[email] = struct{}{}
			emails = append(emails, email)
		}
	}
	return nonAcademic, companies, emails
}
