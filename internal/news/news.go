// Package news searches recent articles through the NewsAPI everything
// endpoint.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultEndpoint = "https://newsapi.org/v2/everything"

// Article is one news hit in the shape fed back to the model.
type Article struct {
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"date"`
}

// Client queries NewsAPI.
type Client struct {
	APIKey   string
	Endpoint string
	http     *http.Client
}

// NewClient builds a NewsAPI client.
func NewClient(apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		APIKey:   apiKey,
		Endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type response struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns the most recent articles matching the query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Article, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("news API key not configured")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API status %d", resp.StatusCode)
	}

	var raw response
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Status != "ok" {
		return nil, fmt.Errorf("news API status %q", raw.Status)
	}

	var out []Article
	for i, a := range raw.Articles {
		if i >= maxResults {
			break
		}
		out = append(out, Article{
			Title:       a.Title,
			Snippet:     a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}
