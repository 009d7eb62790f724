package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const newsPageSize = 100

// NewsAPIClient searches the NewsAPI "everything" endpoint. One call
// returns at most a single page of articles.
type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

func NewNewsAPIClient(apiKey, language string) *NewsAPIClient {
	if language == "" {
		language = "en"
	}
	return &NewsAPIClient{
		apiKey:     apiKey,
		baseURL:    "https://newsapi.org/v2",
		language:   language,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Article is one raw article as returned by the provider.
type Article struct {
	Title       string
	Description string
	Content     string
	URL         string
	Source      string
	PublishedAt time.Time
}

type newsResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// FetchNews returns articles matching query published after since,
// newest first.
func (c *NewsAPIClient) FetchNews(ctx context.Context, query string, since time.Time) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", c.language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprint(newsPageSize))
	params.Set("from", since.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}

	var parsed newsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("newsapi: status %q", parsed.Status)
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			publishedAt = time.Now().UTC()
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: publishedAt,
		})
	}
	return articles, nil
}
