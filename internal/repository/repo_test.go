package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MigsBroedel/tradingAI/internal/models"
	"github.com/MigsBroedel/tradingAI/internal/repository"
	"github.com/MigsBroedel/tradingAI/internal/testutil"
)

func fv(v float64) *float64 { return &v }
func iv(v int64) *int64     { return &v }

// testSymbol returns a symbol unique to this test run so repeated runs
// never collide on immutable rows.
func testSymbol() string {
	return fmt.Sprintf("TST%d", time.Now().UnixNano()%1_000_000)
}

// ---------- MarketRepo ----------

func TestMarketRepo(t *testing.T) {
	pool := testutil.SetupPool(t)
	if err := repository.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	repo := repository.NewMarketRepo(pool)
	ctx := context.Background()
	symbol := testSymbol()

	base := time.Now().UTC().Truncate(24 * time.Hour)
	bars := []models.PriceBar{
		{Symbol: symbol, Timestamp: base.AddDate(0, 0, -1), Interval: "1d",
			Open: fv(100), High: fv(102), Low: fv(99), Close: fv(101), Volume: iv(5000)},
		{Symbol: symbol, Timestamp: base, Interval: "1d",
			Open: fv(101), High: fv(103), Low: fv(100), Close: fv(102.5), Volume: iv(6000), SMA: fv(101.2), RSI: fv(55.1)},
	}

	inserted, updated, err := repo.UpsertPriceBars(ctx, bars)
	if err != nil {
		t.Fatalf("UpsertPriceBars: %v", err)
	}
	if inserted != 2 || updated != 0 {
		t.Fatalf("first write: inserted=%d updated=%d, want 2/0", inserted, updated)
	}
	t.Logf("First write: %d inserted", inserted)

	// same rows again: everything counts as an update
	*bars[1].Close = 103.0
	inserted, updated, err = repo.UpsertPriceBars(ctx, bars)
	if err != nil {
		t.Fatalf("UpsertPriceBars (second): %v", err)
	}
	if inserted != 0 || updated != 2 {
		t.Fatalf("second write: inserted=%d updated=%d, want 0/2", inserted, updated)
	}
	t.Logf("Second write: %d updated", updated)

	got, err := repo.GetPriceBars(ctx, symbol, "1d", 10)
	if err != nil {
		t.Fatalf("GetPriceBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(got))
	}
	if !got[0].Timestamp.After(got[1].Timestamp) {
		t.Fatal("bars not ordered newest first")
	}
	if got[0].Close == nil || *got[0].Close != 103.0 {
		t.Fatalf("updated close not persisted: %v", got[0].Close)
	}
	if got[0].SMA == nil || got[0].RSI == nil {
		t.Fatal("indicators not persisted")
	}
	t.Logf("GetPriceBars: %d rows, latest close %.2f", len(got), *got[0].Close)

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalPriceRecords < 2 {
		t.Fatalf("stats too low: %+v", stats)
	}
	t.Logf("Stats: %d records across %d symbols", stats.TotalPriceRecords, stats.UniqueSymbols)
}

// ---------- NewsRepo ----------

func TestNewsRepo(t *testing.T) {
	pool := testutil.SetupPool(t)
	if err := repository.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	repo := repository.NewNewsRepo(pool)
	ctx := context.Background()
	symbol := testSymbol()

	item := &models.NewsItem{
		Title:          "Quarterly results beat estimates",
		Content:        "The company reported record revenue.",
		URL:            "https://example.com/q-results",
		Source:         "Test Wire",
		PublishedAt:    time.Now().UTC(),
		SentimentLabel: "positive",
		SentimentScore: 0.512,
		Symbols:        []string{symbol},
	}
	if err := repo.CreateNewsItem(ctx, item); err != nil {
		t.Fatalf("CreateNewsItem: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if item.CreatedAt.IsZero() {
		t.Fatal("expected created_at")
	}
	t.Logf("Created news item id=%d", item.ID)

	latest, err := repo.GetLatestNews(ctx, symbol, 5)
	if err != nil {
		t.Fatalf("GetLatestNews: %v", err)
	}
	if len(latest) != 1 {
		t.Fatalf("expected 1 item for %s, got %d", symbol, len(latest))
	}
	if latest[0].SentimentLabel != "positive" || latest[0].SentimentScore != 0.512 {
		t.Fatalf("sentiment not round-tripped: %+v", latest[0])
	}
	t.Logf("GetLatestNews(%s): %d rows", symbol, len(latest))

	all, err := repo.GetLatestNews(ctx, "", 5)
	if err != nil {
		t.Fatalf("GetLatestNews(all): %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected items without symbol filter")
	}
	t.Logf("GetLatestNews(all): %d rows", len(all))
}

// ---------- FundamentalsRepo ----------

func TestFundamentalsRepo(t *testing.T) {
	pool := testutil.SetupPool(t)
	if err := repository.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	repo := repository.NewFundamentalsRepo(pool)
	ctx := context.Background()
	symbol := testSymbol()
	date := time.Now().UTC().Truncate(24 * time.Hour)

	// profile upsert twice: second one replaces
	profile := &models.CompanyProfile{
		Symbol:      symbol,
		CompanyName: "Test Corp",
		Sector:      "Technology",
		MarketCap:   1e9,
		Employees:   5000,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := repo.UpsertCompanyProfile(ctx, profile); err != nil {
		t.Fatalf("UpsertCompanyProfile: %v", err)
	}
	profile.MarketCap = 2e9
	if err := repo.UpsertCompanyProfile(ctx, profile); err != nil {
		t.Fatalf("UpsertCompanyProfile (second): %v", err)
	}
	t.Log("Profile upserted twice")

	// statements insert once, then skip
	stmt := &models.IncomeStatement{Symbol: symbol, Date: date, Period: "FY", Revenue: 5e8, NetIncome: 1e8, EPS: 2.5}
	ok, err := repo.InsertIncomeStatement(ctx, stmt)
	if err != nil {
		t.Fatalf("InsertIncomeStatement: %v", err)
	}
	if !ok {
		t.Fatal("first insert should write a row")
	}
	ok, err = repo.InsertIncomeStatement(ctx, stmt)
	if err != nil {
		t.Fatalf("InsertIncomeStatement (dup): %v", err)
	}
	if ok {
		t.Fatal("duplicate insert should be skipped")
	}
	t.Log("Income statement insert-or-skip OK")

	if _, err := repo.InsertBalanceSheet(ctx, &models.BalanceSheet{Symbol: symbol, Date: date, Period: "FY", TotalAssets: 1e9, TotalEquity: 4e8}); err != nil {
		t.Fatalf("InsertBalanceSheet: %v", err)
	}
	if _, err := repo.InsertCashFlow(ctx, &models.CashFlow{Symbol: symbol, Date: date, Period: "FY", OperatingCashFlow: 2e8}); err != nil {
		t.Fatalf("InsertCashFlow: %v", err)
	}
	if _, err := repo.InsertFinancialRatios(ctx, &models.FinancialRatios{Symbol: symbol, Date: date, Period: "TTM", PERatio: 18.5, ROE: 22.0, DebtToEquity: 0.8}); err != nil {
		t.Fatalf("InsertFinancialRatios: %v", err)
	}

	summary, err := repo.GetFundamentalsSummary(ctx, symbol)
	if err != nil {
		t.Fatalf("GetFundamentalsSummary: %v", err)
	}
	if summary == nil {
		t.Fatal("expected summary")
	}
	if summary.CompanyName == nil || *summary.CompanyName != "Test Corp" {
		t.Fatalf("company name = %v", summary.CompanyName)
	}
	if summary.MarketCap == nil || *summary.MarketCap != 2e9 {
		t.Fatalf("market cap should reflect the re-upsert: %v", summary.MarketCap)
	}
	if summary.ROE == nil || *summary.ROE != 22.0 {
		t.Fatalf("roe = %v", summary.ROE)
	}
	t.Logf("Summary: %s pe=%v roe=%v", symbol, summary.PERatio, summary.ROE)

	// unknown symbol: nil, nil
	missing, err := repo.GetFundamentalsSummary(ctx, "NOPE000")
	if err != nil {
		t.Fatalf("GetFundamentalsSummary(missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown symbol, got %+v", missing)
	}
}
