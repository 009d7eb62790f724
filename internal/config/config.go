package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Universe
	Symbols         []string
	DefaultInterval string
	HistoryPeriod   string

	// Rate limiting / retries
	RequestDelaySeconds float64
	MaxRetries          int

	// Indicators
	SMAWindow int
	RSIWindow int

	// News
	NewsAPIKey        string
	NewsLanguage      string
	NewsLookbackHours int

	// Fundamentals
	AlphaVantageAPIKey  string
	CollectFundamentals bool

	// Notifications
	WebhookURL   string
	PipelineName string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Symbols:         envList("SYMBOLS", []string{"AAPL", "MSFT", "GOOGL"}),
		DefaultInterval: envStr("DEFAULT_INTERVAL", "1d"),
		HistoryPeriod:   envStr("HISTORY_PERIOD", "30d"),

		RequestDelaySeconds: envFloat("REQUEST_DELAY_SECONDS", 1.0),
		MaxRetries:          envInt("MAX_RETRIES", 3),

		SMAWindow: envInt("SMA_WINDOW", 20),
		RSIWindow: envInt("RSI_WINDOW", 14),

		NewsAPIKey:        envStr("NEWS_API_KEY", ""),
		NewsLanguage:      envStr("NEWS_LANGUAGE", "en"),
		NewsLookbackHours: envInt("NEWS_LOOKBACK_HOURS", 24),

		AlphaVantageAPIKey:  envStr("ALPHA_VANTAGE_API_KEY", ""),
		CollectFundamentals: envBool("COLLECT_FUNDAMENTALS", true),

		WebhookURL:   envStr("WEBHOOK_URL", ""),
		PipelineName: envStr("PIPELINE_NAME", "MarketPipeline"),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "market_pipeline"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if len(c.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must list at least one ticker")
	}
	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if c.MaxRetries < 1 {
		errs = append(errs, "MAX_RETRIES must be at least 1")
	}
	if c.NewsAPIKey == "" {
		fmt.Println("[WARN] NEWS_API_KEY not set — news collection will be skipped")
	}
	if c.AlphaVantageAPIKey == "" {
		fmt.Println("[WARN] ALPHA_VANTAGE_API_KEY not set — company profiles and ratios will be skipped")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Market Data Pipeline Configuration ===")
	fmt.Printf("Symbols: %s\n", strings.Join(c.Symbols, ", "))
	fmt.Printf("Interval: %s  History: %s\n", c.DefaultInterval, c.HistoryPeriod)
	fmt.Printf("Request Delay: %.1fs  Max Retries: %d\n", c.RequestDelaySeconds, c.MaxRetries)
	fmt.Printf("Indicators: SMA(%d) RSI(%d)\n", c.SMAWindow, c.RSIWindow)
	fmt.Println("-------------------------------------------")
	fmt.Printf("News: %s (lookback %dh, lang %s)\n",
		boolLabel(c.NewsAPIKey != "", "configured", "not set"), c.NewsLookbackHours, c.NewsLanguage)
	fmt.Printf("Fundamentals: %s, provider %s\n",
		boolLabel(c.CollectFundamentals, "enabled", "disabled"),
		boolLabel(c.AlphaVantageAPIKey != "", "configured", "not set"))
	fmt.Println("===========================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

// envList parses a comma-separated variable, trimming whitespace and
// uppercasing each entry.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
