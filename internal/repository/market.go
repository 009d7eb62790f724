package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MigsBroedel/tradingAI/internal/models"
)

type MarketRepo struct {
	pool *pgxpool.Pool
}

func NewMarketRepo(pool *pgxpool.Pool) *MarketRepo {
	return &MarketRepo{pool: pool}
}

// UpsertPriceBars writes the bars in one transaction. Conflicting rows
// on (symbol, timestamp, interval) are updated in place. Returns how
// many rows were inserted vs updated.
func (r *MarketRepo) UpsertPriceBars(ctx context.Context, bars []models.PriceBar) (inserted, updated int, err error) {
	if len(bars) == 0 {
		return 0, 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, bar := range bars {
		// xmax = 0 only holds for freshly inserted rows
		var isInsert bool
		err := tx.QueryRow(ctx,
			`INSERT INTO market_data (symbol, timestamp, interval, open, high, low, close, volume, sma, rsi)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (symbol, timestamp, interval) DO UPDATE SET
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close,
				volume = EXCLUDED.volume,
				sma = EXCLUDED.sma,
				rsi = EXCLUDED.rsi
			 RETURNING (xmax = 0)`,
			bar.Symbol, bar.Timestamp, bar.Interval,
			bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
			bar.SMA, bar.RSI,
		).Scan(&isInsert)
		if err != nil {
			return 0, 0, fmt.Errorf("upsert bar %s@%s: %w", bar.Symbol, bar.Timestamp.Format("2006-01-02"), err)
		}
		if isInsert {
			inserted++
		} else {
			updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, updated, nil
}

// GetPriceBars returns the most recent bars for a symbol and interval,
// newest first.
func (r *MarketRepo) GetPriceBars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, symbol, timestamp, interval, open, high, low, close, volume, sma, rsi
		 FROM market_data
		 WHERE symbol = $1 AND interval = $2
		 ORDER BY timestamp DESC
		 LIMIT $3`,
		symbol, interval, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PriceBar
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.ID, &b.Symbol, &b.Timestamp, &b.Interval,
			&b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.SMA, &b.RSI); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Stats summarizes what the market_data table currently holds.
func (r *MarketRepo) Stats(ctx context.Context) (*models.CollectionStats, error) {
	var s models.CollectionStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT symbol), MAX(created_at) FROM market_data`,
	).Scan(&s.TotalPriceRecords, &s.UniqueSymbols, &s.LastUpdate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
