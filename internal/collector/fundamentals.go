package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MigsBroedel/tradingAI/internal/external"
	"github.com/MigsBroedel/tradingAI/internal/httputil"
	"github.com/MigsBroedel/tradingAI/internal/models"
)

// ErrNotConfigured is returned by operations whose upstream provider
// has no credentials configured.
var ErrNotConfigured = errors.New("provider not configured")

// OverviewFetcher retrieves company profile and ratio data. Supports
// reports whether the provider covers a symbol at all.
type OverviewFetcher interface {
	Supports(symbol string) bool
	FetchOverview(ctx context.Context, symbol string) (*external.CompanyOverview, error)
}

// StatementsFetcher retrieves annual financial statements.
type StatementsFetcher interface {
	FetchFinancialStatements(ctx context.Context, symbol string) (*external.FinancialStatements, error)
}

// FundamentalsStore persists profiles, statements and ratios.
type FundamentalsStore interface {
	UpsertCompanyProfile(ctx context.Context, profile *models.CompanyProfile) error
	InsertIncomeStatement(ctx context.Context, stmt *models.IncomeStatement) (bool, error)
	InsertBalanceSheet(ctx context.Context, sheet *models.BalanceSheet) (bool, error)
	InsertCashFlow(ctx context.Context, cf *models.CashFlow) (bool, error)
	InsertFinancialRatios(ctx context.Context, ratios *models.FinancialRatios) (bool, error)
}

// FundamentalsResult reports which parts of a symbol's fundamentals
// were collected.
type FundamentalsResult struct {
	Profile    bool
	Statements bool
	Ratios     bool
}

// FundamentalsCollector gathers company profiles, statements and key
// ratios. The overview fetcher may be nil when the provider is not
// configured; profile and ratio collection then fail with
// ErrNotConfigured while statements still work.
type FundamentalsCollector struct {
	overview   OverviewFetcher
	statements StatementsFetcher
	store      FundamentalsStore
	retrier    *httputil.Retrier
	log        logrus.FieldLogger
}

func NewFundamentalsCollector(overview OverviewFetcher, statements StatementsFetcher, store FundamentalsStore, retrier *httputil.Retrier, log logrus.FieldLogger) *FundamentalsCollector {
	return &FundamentalsCollector{
		overview:   overview,
		statements: statements,
		store:      store,
		retrier:    retrier,
		log:        log,
	}
}

// CollectCompanyProfile fetches the company overview and upserts the
// profile row.
func (c *FundamentalsCollector) CollectCompanyProfile(ctx context.Context, symbol string) error {
	if c.overview == nil {
		return fmt.Errorf("company profile for %s: %w", symbol, ErrNotConfigured)
	}

	var overview *external.CompanyOverview
	err := c.retrier.Execute(ctx, "fetch overview "+symbol, func(ctx context.Context) error {
		var ferr error
		overview, ferr = c.overview.FetchOverview(ctx, symbol)
		return ferr
	})
	if err != nil {
		return fmt.Errorf("fetch overview %s: %w", symbol, err)
	}
	if overview == nil {
		return fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	profile := &models.CompanyProfile{
		Symbol:      symbol,
		CompanyName: overview.Name,
		Sector:      overview.Sector,
		Industry:    overview.Industry,
		Description: overview.Description,
		Website:     overview.Website,
		Country:     overview.Country,
		Currency:    overview.Currency,
		Exchange:    overview.Exchange,
		MarketCap:   overview.MarketCap,
		Employees:   overview.Employees,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := c.store.UpsertCompanyProfile(ctx, profile); err != nil {
		return fmt.Errorf("store profile %s: %w", symbol, err)
	}
	c.log.WithField("symbol", symbol).Info("company profile stored")
	return nil
}

// CollectFinancialStatements fetches the latest annual statements and
// inserts each one, skipping rows already present.
func (c *FundamentalsCollector) CollectFinancialStatements(ctx context.Context, symbol string) error {
	var stmts *external.FinancialStatements
	err := c.retrier.Execute(ctx, "fetch statements "+symbol, func(ctx context.Context) error {
		var ferr error
		stmts, ferr = c.statements.FetchFinancialStatements(ctx, symbol)
		return ferr
	})
	if err != nil {
		return fmt.Errorf("fetch statements %s: %w", symbol, err)
	}
	if stmts == nil {
		return fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	inserted, skipped := 0, 0
	if stmts.Income != nil {
		ok, err := c.store.InsertIncomeStatement(ctx, stmts.Income)
		if err != nil {
			return fmt.Errorf("store income statement %s: %w", symbol, err)
		}
		tally(ok, &inserted, &skipped)
	}
	if stmts.Balance != nil {
		ok, err := c.store.InsertBalanceSheet(ctx, stmts.Balance)
		if err != nil {
			return fmt.Errorf("store balance sheet %s: %w", symbol, err)
		}
		tally(ok, &inserted, &skipped)
	}
	if stmts.Cash != nil {
		ok, err := c.store.InsertCashFlow(ctx, stmts.Cash)
		if err != nil {
			return fmt.Errorf("store cash flow %s: %w", symbol, err)
		}
		tally(ok, &inserted, &skipped)
	}
	if inserted+skipped == 0 {
		return fmt.Errorf("%s statements: %w", symbol, ErrNoData)
	}

	c.log.WithFields(logrus.Fields{
		"symbol":   symbol,
		"inserted": inserted,
		"skipped":  skipped,
	}).Info("financial statements stored")
	return nil
}

// CollectKeyRatios derives the ratio row from the company overview and
// inserts it, skipping when the period already exists.
func (c *FundamentalsCollector) CollectKeyRatios(ctx context.Context, symbol string) error {
	if c.overview == nil {
		return fmt.Errorf("key ratios for %s: %w", symbol, ErrNotConfigured)
	}

	var overview *external.CompanyOverview
	err := c.retrier.Execute(ctx, "fetch ratios "+symbol, func(ctx context.Context) error {
		var ferr error
		overview, ferr = c.overview.FetchOverview(ctx, symbol)
		return ferr
	})
	if err != nil {
		return fmt.Errorf("fetch ratios %s: %w", symbol, err)
	}
	if overview == nil {
		return fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	now := time.Now().UTC()
	ratios := &models.FinancialRatios{
		Symbol:          symbol,
		Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Period:          "TTM",
		PERatio:         overview.PERatio,
		PBRatio:         overview.PBRatio,
		PSRatio:         overview.PSRatio,
		ROE:             overview.ROE * 100,
		ROA:             overview.ROA * 100,
		DebtToEquity:    overview.DebtToEquity,
		CurrentRatio:    overview.CurrentRatio,
		QuickRatio:      overview.QuickRatio,
		GrossMargin:     overview.GrossMargin * 100,
		OperatingMargin: overview.OperatingMargin * 100,
		NetMargin:       overview.NetMargin * 100,
	}
	inserted, err := c.store.InsertFinancialRatios(ctx, ratios)
	if err != nil {
		return fmt.Errorf("store ratios %s: %w", symbol, err)
	}
	if inserted {
		c.log.WithField("symbol", symbol).Info("key ratios stored")
	} else {
		c.log.WithField("symbol", symbol).Debug("key ratios already present")
	}
	return nil
}

// CollectAllFundamentals runs all three collections for one symbol.
// Each part fails independently; the result records what succeeded.
func (c *FundamentalsCollector) CollectAllFundamentals(ctx context.Context, symbol string) FundamentalsResult {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	result := FundamentalsResult{}

	if err := c.CollectCompanyProfile(ctx, symbol); err != nil {
		c.logPartFailure(symbol, "profile", err)
	} else {
		result.Profile = true
	}
	if err := c.CollectFinancialStatements(ctx, symbol); err != nil {
		c.logPartFailure(symbol, "statements", err)
	} else {
		result.Statements = true
	}
	if err := c.CollectKeyRatios(ctx, symbol); err != nil {
		c.logPartFailure(symbol, "ratios", err)
	} else {
		result.Ratios = true
	}
	return result
}

// CollectMultipleFundamentals runs CollectAllFundamentals sequentially
// over the symbols, skipping symbols the overview provider does not
// cover. A symbol failure never stops the run.
func (c *FundamentalsCollector) CollectMultipleFundamentals(ctx context.Context, symbols []string) map[string]FundamentalsResult {
	results := make(map[string]FundamentalsResult, len(symbols))
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		if !providerCovered(c.overview, symbol) {
			c.log.WithField("symbol", symbol).Info("symbol not covered by fundamentals providers, skipping")
			continue
		}
		results[symbol] = c.CollectAllFundamentals(ctx, symbol)
	}
	return results
}

// providerCovered applies the overview provider's coverage rule when
// one is configured. Without a provider, exchange-suffixed tickers
// (PETR4.SA) are still skipped.
func providerCovered(overview OverviewFetcher, symbol string) bool {
	if overview != nil {
		return overview.Supports(symbol)
	}
	return !strings.Contains(symbol, ".")
}

func (c *FundamentalsCollector) logPartFailure(symbol, part string, err error) {
	entry := c.log.WithFields(logrus.Fields{"symbol": symbol, "part": part})
	switch {
	case errors.Is(err, ErrNotConfigured):
		entry.Debug("provider not configured, skipping")
	case errors.Is(err, ErrNoData):
		entry.Warn("no fundamentals data")
	default:
		entry.WithError(err).Error("fundamentals collection failed")
	}
}

func tally(inserted bool, ins, skip *int) {
	if inserted {
		*ins++
	} else {
		*skip++
	}
}
