package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MigsBroedel/tradingAI/internal/httputil"
	"github.com/MigsBroedel/tradingAI/internal/indicators"
	"github.com/MigsBroedel/tradingAI/internal/models"
)

// ErrNoData is returned when a provider responds successfully but has
// no records for the requested symbol.
var ErrNoData = errors.New("no data returned")

// ValidationError reports price data that must not be persisted.
type ValidationError struct {
	Symbol string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid price data for %s: %s", e.Symbol, e.Reason)
}

// PriceFetcher fetches OHLCV history for a symbol.
type PriceFetcher interface {
	FetchPriceHistory(ctx context.Context, symbol, period, interval string) ([]models.PriceBar, error)
}

// MarketStore persists price bars keyed by (symbol, timestamp, interval).
type MarketStore interface {
	UpsertPriceBars(ctx context.Context, bars []models.PriceBar) (inserted, updated int, err error)
}

// MarketConfig carries the tunables for one collection run.
type MarketConfig struct {
	Period    string
	Interval  string
	SMAWindow int
	RSIWindow int
}

// MarketDataCollector fetches, validates, enriches and stores price
// history for a set of symbols.
type MarketDataCollector struct {
	fetcher PriceFetcher
	store   MarketStore
	retrier *httputil.Retrier
	cfg     MarketConfig
	log     logrus.FieldLogger
}

func NewMarketDataCollector(fetcher PriceFetcher, store MarketStore, retrier *httputil.Retrier, cfg MarketConfig, log logrus.FieldLogger) *MarketDataCollector {
	if cfg.Interval == "" {
		cfg.Interval = "1d"
	}
	if cfg.Period == "" {
		cfg.Period = "30d"
	}
	if cfg.SMAWindow <= 0 {
		cfg.SMAWindow = 20
	}
	if cfg.RSIWindow <= 0 {
		cfg.RSIWindow = 14
	}
	return &MarketDataCollector{
		fetcher: fetcher,
		store:   store,
		retrier: retrier,
		cfg:     cfg,
		log:     log,
	}
}

// Collect runs the full pipeline for one symbol: fetch with retries,
// validate, enrich with indicators, then upsert. Validation failures
// abort before any write.
func (c *MarketDataCollector) Collect(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var bars []models.PriceBar
	err := c.retrier.Execute(ctx, "fetch price history "+symbol, func(ctx context.Context) error {
		var ferr error
		bars, ferr = c.fetcher.FetchPriceHistory(ctx, symbol, c.cfg.Period, c.cfg.Interval)
		return ferr
	})
	if err != nil {
		return fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	if err := c.validate(symbol, bars); err != nil {
		return err
	}
	c.enrich(bars)

	inserted, updated, err := c.store.UpsertPriceBars(ctx, bars)
	if err != nil {
		return fmt.Errorf("store %s: %w", symbol, err)
	}
	c.log.WithFields(logrus.Fields{
		"symbol":   symbol,
		"bars":     len(bars),
		"inserted": inserted,
		"updated":  updated,
	}).Info("price history stored")
	return nil
}

// CollectMultiple runs Collect for each symbol sequentially and
// reports per-symbol success. A symbol failure never stops the run.
func (c *MarketDataCollector) CollectMultiple(ctx context.Context, symbols []string) map[string]bool {
	results := make(map[string]bool, len(symbols))
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		if err := c.Collect(ctx, symbol); err != nil {
			if errors.Is(err, ErrNoData) {
				c.log.WithField("symbol", symbol).Warn("no price data available")
			} else {
				c.log.WithField("symbol", symbol).WithError(err).Error("price collection failed")
			}
			results[symbol] = false
			continue
		}
		results[symbol] = true
	}

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	c.log.WithFields(logrus.Fields{
		"succeeded": succeeded,
		"total":     len(results),
	}).Info("market data collection finished")
	return results
}

// validate rejects bars where high < low and logs suspicious values
// without rejecting them. Rejection covers the whole batch so partial
// writes never happen.
func (c *MarketDataCollector) validate(symbol string, bars []models.PriceBar) error {
	var prevClose *float64
	for _, bar := range bars {
		if bar.High != nil && bar.Low != nil && *bar.High < *bar.Low {
			return &ValidationError{
				Symbol: symbol,
				Reason: fmt.Sprintf("high %.4f below low %.4f at %s", *bar.High, *bar.Low, bar.Timestamp.Format("2006-01-02")),
			}
		}
		for name, v := range map[string]*float64{"open": bar.Open, "high": bar.High, "low": bar.Low, "close": bar.Close} {
			if v != nil && *v <= 0 {
				c.log.WithFields(logrus.Fields{
					"symbol": symbol,
					"field":  name,
					"value":  *v,
					"date":   bar.Timestamp.Format("2006-01-02"),
				}).Warn("non-positive price")
			}
		}
		if bar.Close != nil {
			if prevClose != nil && *prevClose != 0 {
				change := (*bar.Close - *prevClose) / *prevClose
				if math.Abs(change) > 0.5 {
					c.log.WithFields(logrus.Fields{
						"symbol": symbol,
						"change": fmt.Sprintf("%.1f%%", change*100),
						"date":   bar.Timestamp.Format("2006-01-02"),
					}).Warn("suspicious daily move")
				}
			}
			prevClose = bar.Close
		}
	}
	return nil
}

// enrich computes SMA and RSI over the close series and attaches the
// values to bars where they are defined. A bar with a missing close
// leaves the indicators nil only while it sits inside the window.
func (c *MarketDataCollector) enrich(bars []models.PriceBar) {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		if bar.Close == nil {
			closes[i] = math.NaN()
			continue
		}
		closes[i] = *bar.Close
	}

	sma, err := indicators.SMA(closes, c.cfg.SMAWindow)
	if err == nil {
		for i := range bars {
			if !math.IsNaN(sma[i]) {
				v := sma[i]
				bars[i].SMA = &v
			}
		}
	}
	rsi, err := indicators.RSI(closes, c.cfg.RSIWindow)
	if err == nil {
		for i := range bars {
			if !math.IsNaN(rsi[i]) {
				v := rsi[i]
				bars[i].RSI = &v
			}
		}
	}
}
