// file: internal/engine/search.go
// version: 1.0.0
// guid: 0a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// SearchResult is one hit from a platform catalog search.
type SearchResult struct {
	ID     string
	Title  string
	Artist string
}

// Searcher is the catalog-search capability.
type Searcher interface {
	Search(ctx context.Context, platform, mediaType, query string, limit int) ([]SearchResult, error)
}

// Search runs `rip search` with an output file and parses the results.
func (s *Streamrip) Search(ctx context.Context, platform, mediaType, query string, limit int) ([]SearchResult, error) {
	tmp, err := os.CreateTemp("", "srsearch-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create results file: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	args := []string{"search", "--output-file", tmp.Name(), platform, mediaType, query}
	cmd := exec.CommandContext(ctx, s.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("search cancelled: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("streamrip search failed: %s", msg)
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}
	results, err := parseSearchResults(data)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// parseSearchResults decodes the loosely-shaped JSON the CLI writes. Field
// names vary across platforms, so lookups go through key candidates.
func parseSearchResults(data []byte) ([]SearchResult, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	var results []SearchResult
	for _, item := range raw {
		r := SearchResult{
			ID:     stringField(item, "id", "item_id"),
			Title:  stringField(item, "title", "name", "track_title"),
			Artist: stringField(item, "artist", "performer", "artist_name"),
		}
		if r.ID == "" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		case map[string]any:
			if name, ok := v["name"].(string); ok && name != "" {
				return name
			}
		}
	}
	return ""
}
