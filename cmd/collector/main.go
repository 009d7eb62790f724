package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MigsBroedel/tradingAI/internal/analysis"
	"github.com/MigsBroedel/tradingAI/internal/collector"
	"github.com/MigsBroedel/tradingAI/internal/config"
	"github.com/MigsBroedel/tradingAI/internal/db"
	"github.com/MigsBroedel/tradingAI/internal/external"
	"github.com/MigsBroedel/tradingAI/internal/httputil"
	"github.com/MigsBroedel/tradingAI/internal/notifications"
	"github.com/MigsBroedel/tradingAI/internal/repository"
	"github.com/MigsBroedel/tradingAI/internal/sentiment"
)

const banner = `
╔══════════════════════════════════════╗
║     Market Data Pipeline v0.1        ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg.Print()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Database
	log.Infof("connecting to %s:%d/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	marketRepo := repository.NewMarketRepo(pool)
	newsRepo := repository.NewNewsRepo(pool)
	fundamentalsRepo := repository.NewFundamentalsRepo(pool)

	retrier := httputil.NewRetrier(httputil.RetryConfig{
		MaxAttempts:  cfg.MaxRetries,
		BaseDelay:    time.Second,
		RequestDelay: time.Duration(cfg.RequestDelaySeconds * float64(time.Second)),
	}, log)

	yahoo := external.NewYahooClient()

	// 1. Price history
	market := collector.NewMarketDataCollector(yahoo, marketRepo, retrier, collector.MarketConfig{
		Period:    cfg.HistoryPeriod,
		Interval:  cfg.DefaultInterval,
		SMAWindow: cfg.SMAWindow,
		RSIWindow: cfg.RSIWindow,
	}, log)
	market.CollectMultiple(ctx, cfg.Symbols)

	// 2. News with sentiment
	if cfg.NewsAPIKey != "" {
		newsClient := external.NewNewsAPIClient(cfg.NewsAPIKey, cfg.NewsLanguage)
		news := collector.NewNewsCollector(newsClient, newsRepo, sentiment.NewAnalyzer(), retrier,
			time.Duration(cfg.NewsLookbackHours)*time.Hour, log)
		if _, _, err := news.ProcessAndStore(ctx, cfg.Symbols); err != nil {
			log.WithError(err).Error("news collection failed")
		}
	} else {
		log.Warn("no news API key configured, skipping news collection")
	}

	// 3. Fundamentals
	if cfg.CollectFundamentals {
		var overview collector.OverviewFetcher
		if cfg.AlphaVantageAPIKey != "" {
			overview = external.NewAlphaVantageClient(cfg.AlphaVantageAPIKey)
		}
		fundamentals := collector.NewFundamentalsCollector(overview, yahoo, fundamentalsRepo, retrier, log)
		fundamentals.CollectMultipleFundamentals(ctx, cfg.Symbols)

		scorer := analysis.NewScorer(fundamentalsRepo, log)
		ranked := scorer.RankByFundamentals(ctx, cfg.Symbols)
		for i, company := range ranked {
			log.Infof("health rank %d: %s score %.1f", i+1, company.Symbol, company.Total)
		}
	} else {
		log.Info("fundamentals collection disabled")
	}

	notify := notifications.NewSender(cfg.WebhookURL, cfg.PipelineName, log)
	report(ctx, log, notify, marketRepo, newsRepo)
}

// report summarizes what the database now holds and pushes it to the
// configured webhook.
func report(ctx context.Context, log *logrus.Logger, notify *notifications.Sender, marketRepo *repository.MarketRepo, newsRepo *repository.NewsRepo) {
	stats, err := marketRepo.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("failed to read collection stats")
		return
	}
	last := "never"
	if stats.LastUpdate != nil {
		last = stats.LastUpdate.Format(time.RFC3339)
	}
	notify.Send(ctx, fmt.Sprintf("run complete: %d price records for %d symbols, last update %s",
		stats.TotalPriceRecords, stats.UniqueSymbols, last))

	headlines, err := newsRepo.GetLatestNews(ctx, "", 3)
	if err != nil {
		log.WithError(err).Error("failed to read latest headlines")
		return
	}
	for _, h := range headlines {
		log.Infof("latest news [%s %.3f]: %s", h.SentimentLabel, h.SentimentScore, h.Title)
	}
}
