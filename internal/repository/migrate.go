package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations holds the schema statements, applied in order on every
// startup. Statements are idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS market_data (
		id          BIGSERIAL PRIMARY KEY,
		symbol      VARCHAR(20) NOT NULL,
		timestamp   TIMESTAMPTZ NOT NULL,
		interval    VARCHAR(10) NOT NULL,
		open        DOUBLE PRECISION,
		high        DOUBLE PRECISION,
		low         DOUBLE PRECISION,
		close       DOUBLE PRECISION,
		volume      BIGINT,
		sma         DOUBLE PRECISION,
		rsi         DOUBLE PRECISION,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (symbol, timestamp, interval)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_market_data_symbol_ts
		ON market_data (symbol, timestamp DESC)`,

	`CREATE TABLE IF NOT EXISTS news (
		id              BIGSERIAL PRIMARY KEY,
		title           TEXT NOT NULL,
		content         TEXT,
		url             TEXT,
		source          VARCHAR(100),
		published_at    TIMESTAMPTZ,
		sentiment_label VARCHAR(10) CHECK (sentiment_label IN ('positive', 'negative', 'neutral')),
		sentiment_score DOUBLE PRECISION,
		symbols         TEXT[] NOT NULL DEFAULT '{}',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_news_symbols ON news USING GIN (symbols)`,
	`CREATE INDEX IF NOT EXISTS idx_news_published ON news (published_at DESC)`,

	`CREATE TABLE IF NOT EXISTS companies (
		symbol       VARCHAR(20) PRIMARY KEY,
		company_name TEXT,
		sector       TEXT,
		industry     TEXT,
		description  TEXT,
		website      TEXT,
		market_cap   DOUBLE PRECISION,
		employees    BIGINT,
		country      TEXT,
		currency     TEXT,
		exchange     TEXT,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS income_statements (
		id                 BIGSERIAL PRIMARY KEY,
		symbol             VARCHAR(20) NOT NULL,
		date               DATE NOT NULL,
		period             VARCHAR(10) NOT NULL,
		revenue            DOUBLE PRECISION,
		cost_of_revenue    DOUBLE PRECISION,
		gross_profit       DOUBLE PRECISION,
		operating_expenses DOUBLE PRECISION,
		operating_income   DOUBLE PRECISION,
		net_income         DOUBLE PRECISION,
		eps                DOUBLE PRECISION,
		ebitda             DOUBLE PRECISION,
		UNIQUE (symbol, date, period)
	)`,

	`CREATE TABLE IF NOT EXISTS balance_sheets (
		id                BIGSERIAL PRIMARY KEY,
		symbol            VARCHAR(20) NOT NULL,
		date              DATE NOT NULL,
		period            VARCHAR(10) NOT NULL,
		total_assets      DOUBLE PRECISION,
		total_liabilities DOUBLE PRECISION,
		total_equity      DOUBLE PRECISION,
		cash              DOUBLE PRECISION,
		total_debt        DOUBLE PRECISION,
		working_capital   DOUBLE PRECISION,
		UNIQUE (symbol, date, period)
	)`,

	`CREATE TABLE IF NOT EXISTS cash_flows (
		id                  BIGSERIAL PRIMARY KEY,
		symbol              VARCHAR(20) NOT NULL,
		date                DATE NOT NULL,
		period              VARCHAR(10) NOT NULL,
		operating_cash_flow DOUBLE PRECISION,
		investing_cash_flow DOUBLE PRECISION,
		financing_cash_flow DOUBLE PRECISION,
		free_cash_flow      DOUBLE PRECISION,
		capex               DOUBLE PRECISION,
		UNIQUE (symbol, date, period)
	)`,

	`CREATE TABLE IF NOT EXISTS financial_ratios (
		id               BIGSERIAL PRIMARY KEY,
		symbol           VARCHAR(20) NOT NULL,
		date             DATE NOT NULL,
		period           VARCHAR(10) NOT NULL,
		pe_ratio         DOUBLE PRECISION,
		pb_ratio         DOUBLE PRECISION,
		ps_ratio         DOUBLE PRECISION,
		roe              DOUBLE PRECISION,
		roa              DOUBLE PRECISION,
		roi              DOUBLE PRECISION,
		debt_to_equity   DOUBLE PRECISION,
		current_ratio    DOUBLE PRECISION,
		quick_ratio      DOUBLE PRECISION,
		gross_margin     DOUBLE PRECISION,
		operating_margin DOUBLE PRECISION,
		net_margin       DOUBLE PRECISION,
		UNIQUE (symbol, date, period)
	)`,
}

// Migrate applies the schema. Safe to run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
