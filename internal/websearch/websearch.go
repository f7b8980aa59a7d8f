// Package websearch provides web search for the agent's grounding tools.
// Brave is preferred when configured, Serper otherwise.
package websearch

import (
	"context"
	"fmt"

	"github.com/atlasiq/atlasiq/config"
)

// Result is one web search hit in the shape fed back to the model.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Searcher finds web results for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// NewSearcher picks a provider from configuration.
func NewSearcher(cfg config.SearchConfig) (Searcher, error) {
	switch {
	case cfg.BraveAPIKey != "":
		return Brave{APIKey: cfg.BraveAPIKey}, nil
	case cfg.SerperAPIKey != "":
		return Serper{APIKey: cfg.SerperAPIKey}, nil
	}
	return nil, fmt.Errorf("no web search provider configured (search.brave_api_key or search.serper_api_key)")
}
