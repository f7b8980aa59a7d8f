package tools

import (
	"context"
	"time"

	"github.com/atlasiq/atlasiq/internal/news"
	"github.com/atlasiq/atlasiq/internal/websearch"
)

// NewsProvider is the narrow contract the news tool needs.
type NewsProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]news.Article, error)
}

// WebSearch finds real-time information on the open web.
type WebSearch struct {
	Searcher websearch.Searcher
}

func (WebSearch) Name() string { return "web_search" }

func (WebSearch) Description() string {
	return "Search the web for real-time information. Use this for current events, recent updates, " +
		"travel advisories, or any question that needs up-to-date info beyond your training data."
}

func (WebSearch) Parameters() []Param {
	return []Param{
		{"query", "(required) The search query"},
		{"max_results", "(optional) Number of results to return, default 5, max 10"},
	}
}

func (t WebSearch) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	query := strParam(params, "query")
	if query == "" {
		return errorJSON("query is required"), nil
	}
	maxResults := intParam(params, "max_results", 5)
	if maxResults > 10 {
		maxResults = 10
	}

	results, err := t.Searcher.Search(ctx, query, maxResults)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return marshal(map[string]interface{}{
			"results": []websearch.Result{},
			"message": "No results found.",
		})
	}
	return marshal(map[string]interface{}{"results": results, "total": len(results)})
}

// NewsSearch finds recent news articles.
type NewsSearch struct {
	News NewsProvider
}

func (NewsSearch) Name() string { return "news_search" }

func (NewsSearch) Description() string {
	return "Search for the latest news articles. Use this when the user asks about latest news, " +
		"recent events, current happenings, or breaking news about a country or place."
}

func (NewsSearch) Parameters() []Param {
	return []Param{
		{"query", "(required) The news search query, e.g. 'London latest news', 'Japan earthquake'"},
		{"max_results", "(optional) Number of results to return, default 5, max 10"},
	}
}

func (t NewsSearch) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	query := strParam(params, "query")
	if query == "" {
		return errorJSON("query is required"), nil
	}
	maxResults := intParam(params, "max_results", 5)
	if maxResults > 10 {
		maxResults = 10
	}

	articles, err := t.News.Search(ctx, query, maxResults)
	if err != nil {
		return "", err
	}
	if len(articles) == 0 {
		return marshal(map[string]interface{}{
			"results": []slimArticle{},
			"message": "No news found.",
		})
	}

	slim := make([]slimArticle, 0, len(articles))
	for _, a := range articles {
		slim = append(slim, slimArticle{
			Title:   a.Title,
			Snippet: a.Snippet,
			URL:     a.URL,
			Source:  a.Source,
			Date:    a.PublishedAt.Format(time.RFC3339),
		})
	}
	return marshal(map[string]interface{}{"results": slim, "total": len(slim)})
}

type slimArticle struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}
