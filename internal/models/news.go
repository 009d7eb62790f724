package models

import "time"

// NewsItem is one scored news article. Articles have no natural key;
// re-running the pipeline inside the same lookback window will insert
// the same article again.
type NewsItem struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	URL            string    `json:"url"`
	Source         string    `json:"source"`
	PublishedAt    time.Time `json:"publishedAt"`
	SentimentLabel string    `json:"sentimentLabel"`
	SentimentScore float64   `json:"sentimentScore"`
	Symbols        []string  `json:"symbols"`
	CreatedAt      time.Time `json:"createdAt"`
}
