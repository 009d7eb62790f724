package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MigsBroedel/tradingAI/internal/models"
)

type FundamentalsRepo struct {
	pool *pgxpool.Pool
}

func NewFundamentalsRepo(pool *pgxpool.Pool) *FundamentalsRepo {
	return &FundamentalsRepo{pool: pool}
}

// UpsertCompanyProfile replaces the profile row for the symbol.
func (r *FundamentalsRepo) UpsertCompanyProfile(ctx context.Context, p *models.CompanyProfile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO companies (symbol, company_name, sector, industry, description, website,
			market_cap, employees, country, currency, exchange, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (symbol) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			market_cap = EXCLUDED.market_cap,
			employees = EXCLUDED.employees,
			country = EXCLUDED.country,
			currency = EXCLUDED.currency,
			exchange = EXCLUDED.exchange,
			updated_at = EXCLUDED.updated_at`,
		p.Symbol, p.CompanyName, p.Sector, p.Industry, p.Description, p.Website,
		p.MarketCap, p.Employees, p.Country, p.Currency, p.Exchange, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert company %s: %w", p.Symbol, err)
	}
	return nil
}

// Statement rows are immutable history: inserts skip silently when the
// (symbol, date, period) row already exists. The bool reports whether
// a row was actually written.

func (r *FundamentalsRepo) InsertIncomeStatement(ctx context.Context, s *models.IncomeStatement) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO income_statements (symbol, date, period, revenue, cost_of_revenue, gross_profit,
			operating_expenses, operating_income, net_income, eps, ebitda)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (symbol, date, period) DO NOTHING`,
		s.Symbol, s.Date, s.Period, s.Revenue, s.CostOfRevenue, s.GrossProfit,
		s.OperatingExpenses, s.OperatingIncome, s.NetIncome, s.EPS, s.EBITDA,
	)
	if err != nil {
		return false, fmt.Errorf("insert income statement %s: %w", s.Symbol, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FundamentalsRepo) InsertBalanceSheet(ctx context.Context, b *models.BalanceSheet) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO balance_sheets (symbol, date, period, total_assets, total_liabilities,
			total_equity, cash, total_debt, working_capital)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (symbol, date, period) DO NOTHING`,
		b.Symbol, b.Date, b.Period, b.TotalAssets, b.TotalLiabilities,
		b.TotalEquity, b.Cash, b.TotalDebt, b.WorkingCapital,
	)
	if err != nil {
		return false, fmt.Errorf("insert balance sheet %s: %w", b.Symbol, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FundamentalsRepo) InsertCashFlow(ctx context.Context, c *models.CashFlow) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO cash_flows (symbol, date, period, operating_cash_flow, investing_cash_flow,
			financing_cash_flow, free_cash_flow, capex)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (symbol, date, period) DO NOTHING`,
		c.Symbol, c.Date, c.Period, c.OperatingCashFlow, c.InvestingCashFlow,
		c.FinancingCashFlow, c.FreeCashFlow, c.CapEx,
	)
	if err != nil {
		return false, fmt.Errorf("insert cash flow %s: %w", c.Symbol, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FundamentalsRepo) InsertFinancialRatios(ctx context.Context, f *models.FinancialRatios) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO financial_ratios (symbol, date, period, pe_ratio, pb_ratio, ps_ratio, roe, roa, roi,
			debt_to_equity, current_ratio, quick_ratio, gross_margin, operating_margin, net_margin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (symbol, date, period) DO NOTHING`,
		f.Symbol, f.Date, f.Period, f.PERatio, f.PBRatio, f.PSRatio, f.ROE, f.ROA, f.ROI,
		f.DebtToEquity, f.CurrentRatio, f.QuickRatio, f.GrossMargin, f.OperatingMargin, f.NetMargin,
	)
	if err != nil {
		return false, fmt.Errorf("insert ratios %s: %w", f.Symbol, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetFundamentalsSummary joins the latest profile, income statement
// and ratio rows for a symbol. Returns nil when nothing is stored.
func (r *FundamentalsRepo) GetFundamentalsSummary(ctx context.Context, symbol string) (*models.FundamentalsSummary, error) {
	s := models.FundamentalsSummary{Symbol: symbol}
	err := r.pool.QueryRow(ctx,
		`SELECT
			c.company_name, c.sector, c.industry, c.market_cap,
			i.revenue, i.net_income, i.eps,
			f.pe_ratio, f.pb_ratio, f.roe, f.debt_to_equity
		 FROM companies c
		 LEFT JOIN LATERAL (
			SELECT revenue, net_income, eps FROM income_statements
			WHERE symbol = c.symbol ORDER BY date DESC LIMIT 1
		 ) i ON TRUE
		 LEFT JOIN LATERAL (
			SELECT pe_ratio, pb_ratio, roe, debt_to_equity FROM financial_ratios
			WHERE symbol = c.symbol ORDER BY date DESC LIMIT 1
		 ) f ON TRUE
		 WHERE c.symbol = $1`,
		symbol,
	).Scan(&s.CompanyName, &s.Sector, &s.Industry, &s.MarketCap,
		&s.Revenue, &s.NetIncome, &s.EPS,
		&s.PERatio, &s.PBRatio, &s.ROE, &s.DebtToEquity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fundamentals summary %s: %w", symbol, err)
	}
	return &s, nil
}
