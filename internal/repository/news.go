package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MigsBroedel/tradingAI/internal/models"
)

type NewsRepo struct {
	pool *pgxpool.Pool
}

func NewNewsRepo(pool *pgxpool.Pool) *NewsRepo {
	return &NewsRepo{pool: pool}
}

// CreateNewsItem inserts one scored article and fills in the generated
// id and created_at.
func (r *NewsRepo) CreateNewsItem(ctx context.Context, item *models.NewsItem) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO news (title, content, url, source, published_at, sentiment_label, sentiment_score, symbols)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		item.Title, item.Content, item.URL, item.Source, item.PublishedAt,
		item.SentimentLabel, item.SentimentScore, item.Symbols,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

// GetLatestNews returns the newest items, optionally filtered to those
// tagged with a symbol. Pass an empty symbol for all items.
func (r *NewsRepo) GetLatestNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, title, content, url, source, published_at, sentiment_label, sentiment_score, symbols, created_at
		 FROM news`
	args := []any{}
	if symbol != "" {
		query += ` WHERE $1 = ANY(symbols)`
		args = append(args, symbol)
	}
	query += fmt.Sprintf(` ORDER BY published_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.NewsItem
	for rows.Next() {
		var n models.NewsItem
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.URL, &n.Source,
			&n.PublishedAt, &n.SentimentLabel, &n.SentimentScore, &n.Symbols, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
