// Package pubmed fetches article metadata from the NCBI E-utilities API.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/logger"
)

// Client queries PubMed through the ESearch and EFetch endpoints.
type Client struct {
	baseURL string
	email   string
	client  *http.Client
}

// Config configures the PubMed client.
type Config struct {
	BaseURL string
	Email   string
	Timeout time.Duration
}

// NewClient creates a PubMed client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		email:   cfg.Email,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch searches PubMed and returns parsed article metadata.
// No results is a normal outcome and yields an empty slice.
func (c *Client) Fetch(ctx context.Context, query string, limit int) ([]domain.Paper, error) {
	if limit <= 0 {
		limit = 5
	}
	ids, err := c.searchIDs(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pubmed search: %w", err)
	}
	logger.Debugf("pubmed: %d ids for %q", len(ids), query)
	if len(ids) == 0 {
		return nil, nil
	}
	papers, err := c.fetchArticles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("pubmed fetch: %w", err)
	}
	return papers, nil
}

func (c *Client) searchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmode": {"json"},
		"retmax":  {strconv.Itoa(limit)},
	}
	if c.email != "" {
		params.Set("email", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/esearch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch returned status %d", resp.StatusCode)
	}

	var out struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.ESearchResult.IDList, nil
}

func (c *Client) fetchArticles(ctx context.Context, ids []string) ([]domain.Paper, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	if c.email != "" {
		params.Set("email", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/efetch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned status %d", resp.StatusCode)
	}
	return ParseArticleSet(resp.Body)
}
