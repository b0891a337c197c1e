package retriever

import (
	"encoding/json"
	"errors"
	"os"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/logger"
)

// The session cache is the most-recent-results artifact written after every
// fetch. It only serves as a fallback corpus when no index generation exists.

// LoadCache reads the session cache. A missing or malformed cache means "no
// cache" and yields an empty list without error.
func LoadCache(path string) ([]domain.Paper, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var papers []domain.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		logger.Warnf("malformed session cache %s: %v", path, err)
		return nil, nil
	}
	return papers, nil
}

// SaveCache overwrites the session cache with the given papers.
func SaveCache(path string, papers []domain.Paper) error {
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
