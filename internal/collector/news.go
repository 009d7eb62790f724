package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MigsBroedel/tradingAI/internal/external"
	"github.com/MigsBroedel/tradingAI/internal/httputil"
	"github.com/MigsBroedel/tradingAI/internal/models"
)

// NewsFetcher retrieves raw articles matching a query published since
// a point in time.
type NewsFetcher interface {
	FetchNews(ctx context.Context, query string, since time.Time) ([]external.Article, error)
}

// NewsStore persists scored news items.
type NewsStore interface {
	CreateNewsItem(ctx context.Context, item *models.NewsItem) error
}

// SentimentAnalyzer scores a text, returning a label and a compound
// score in [-1, 1].
type SentimentAnalyzer interface {
	Analyze(text string) (label string, score float64)
}

// companyNames maps tickers to the name used when querying the news
// provider. Relevance matching stays on the bare ticker.
var companyNames = map[string]string{
	"AAPL":     "Apple",
	"MSFT":     "Microsoft",
	"GOOGL":    "Google",
	"GOOG":     "Google",
	"AMZN":     "Amazon",
	"META":     "Meta",
	"NVDA":     "Nvidia",
	"TSLA":     "Tesla",
	"NFLX":     "Netflix",
	"JPM":      "JPMorgan",
	"V":        "Visa",
	"KO":       "Coca-Cola",
	"PETR4.SA": "Petrobras",
	"VALE3.SA": "Vale",
	"ITUB4.SA": "Itau",
	"BBDC4.SA": "Bradesco",
	"ABEV3.SA": "Ambev",
}

// NewsCollector fetches articles for a set of symbols, scores
// sentiment and stores the relevant ones.
type NewsCollector struct {
	fetcher  NewsFetcher
	store    NewsStore
	analyzer SentimentAnalyzer
	retrier  *httputil.Retrier
	lookback time.Duration
	log      logrus.FieldLogger
}

func NewNewsCollector(fetcher NewsFetcher, store NewsStore, analyzer SentimentAnalyzer, retrier *httputil.Retrier, lookback time.Duration, log logrus.FieldLogger) *NewsCollector {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &NewsCollector{
		fetcher:  fetcher,
		store:    store,
		analyzer: analyzer,
		retrier:  retrier,
		lookback: lookback,
		log:      log,
	}
}

// ProcessAndStore fetches recent articles for the symbols, keeps those
// relevant to at least one symbol, scores them and writes them out. It
// returns how many items were stored and how many articles were
// fetched.
func (c *NewsCollector) ProcessAndStore(ctx context.Context, symbols []string) (stored, fetched int, err error) {
	if len(symbols) == 0 {
		return 0, 0, nil
	}
	query := buildQuery(symbols)
	since := time.Now().Add(-c.lookback)

	var articles []external.Article
	err = c.retrier.Execute(ctx, "fetch news", func(ctx context.Context) error {
		var ferr error
		articles, ferr = c.fetcher.FetchNews(ctx, query, since)
		return ferr
	})
	if err != nil {
		return 0, 0, fmt.Errorf("fetch news: %w", err)
	}
	fetched = len(articles)

	for _, article := range articles {
		if strings.TrimSpace(article.Title) == "" {
			continue
		}
		body := firstNonEmpty(article.Content, article.Description)
		matched := extractSymbols(article.Title, body, symbols)
		if len(matched) == 0 {
			continue
		}
		label, score := c.analyzer.Analyze(body)
		item := &models.NewsItem{
			Title:          article.Title,
			Content:        body,
			URL:            article.URL,
			Source:         article.Source,
			PublishedAt:    article.PublishedAt,
			SentimentLabel: label,
			SentimentScore: score,
			Symbols:        matched,
		}
		if err := c.store.CreateNewsItem(ctx, item); err != nil {
			c.log.WithField("url", article.URL).WithError(err).Error("failed to store news item")
			continue
		}
		stored++
	}

	c.log.WithFields(logrus.Fields{
		"fetched": fetched,
		"stored":  stored,
	}).Info("news collection finished")
	return stored, fetched, nil
}

// buildQuery ORs the company names (quoted) for the provider query.
// Symbols without a known company name fall back to the bare ticker.
func buildQuery(symbols []string) string {
	terms := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		if name, ok := companyNames[symbol]; ok {
			terms = append(terms, `"`+name+`"`)
			continue
		}
		terms = append(terms, baseTicker(symbol))
	}
	return strings.Join(terms, " OR ")
}

// baseTicker strips an exchange suffix, e.g. PETR4.SA -> PETR4.
func baseTicker(symbol string) string {
	if i := strings.Index(symbol, "."); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// extractSymbols returns the symbols an article is relevant to: those
// whose base ticker appears as a case-insensitive substring of the
// title or body. Bare substring matching over-matches short tickers
// inside unrelated words; kept as is pending a smarter matcher.
func extractSymbols(title, body string, symbols []string) []string {
	text := strings.ToLower(title + " " + body)
	var matched []string
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(baseTicker(symbol))) {
			matched = append(matched, symbol)
		}
	}
	return matched
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
