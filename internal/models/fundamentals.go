package models

import "time"

// CompanyProfile is the descriptive record for one company, keyed by
// symbol and fully replaced on every refresh.
type CompanyProfile struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"companyName"`
	Sector      string    `json:"sector"`
	Industry    string    `json:"industry"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	MarketCap   float64   `json:"marketCap"`
	Employees   int64     `json:"employees"`
	Country     string    `json:"country"`
	Currency    string    `json:"currency"`
	Exchange    string    `json:"exchange"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Financial statements are historical facts: once a (symbol, date,
// period) row is recorded it is never overwritten. Line items default
// to zero when the source omits them.

type IncomeStatement struct {
	Symbol            string    `json:"symbol"`
	Date              time.Time `json:"date"`
	Period            string    `json:"period"` // "FY", "Q1", ...
	Revenue           float64   `json:"revenue"`
	CostOfRevenue     float64   `json:"costOfRevenue"`
	GrossProfit       float64   `json:"grossProfit"`
	OperatingExpenses float64   `json:"operatingExpenses"`
	OperatingIncome   float64   `json:"operatingIncome"`
	NetIncome         float64   `json:"netIncome"`
	EPS               float64   `json:"eps"`
	EBITDA            float64   `json:"ebitda"`
}

type BalanceSheet struct {
	Symbol           string    `json:"symbol"`
	Date             time.Time `json:"date"`
	Period           string    `json:"period"`
	TotalAssets      float64   `json:"totalAssets"`
	TotalLiabilities float64   `json:"totalLiabilities"`
	TotalEquity      float64   `json:"totalEquity"`
	Cash             float64   `json:"cash"`
	TotalDebt        float64   `json:"totalDebt"`
	WorkingCapital   float64   `json:"workingCapital"`
}

type CashFlow struct {
	Symbol            string    `json:"symbol"`
	Date              time.Time `json:"date"`
	Period            string    `json:"period"`
	OperatingCashFlow float64   `json:"operatingCashFlow"`
	InvestingCashFlow float64   `json:"investingCashFlow"`
	FinancingCashFlow float64   `json:"financingCashFlow"`
	FreeCashFlow      float64   `json:"freeCashFlow"`
	CapEx             float64   `json:"capex"`
}

// FinancialRatios carries valuation, profitability and leverage ratios
// for one (symbol, date, period). Ratios may be zero or negative when
// the source leaves them undefined.
type FinancialRatios struct {
	Symbol          string    `json:"symbol"`
	Date            time.Time `json:"date"`
	Period          string    `json:"period"` // typically "TTM"
	PERatio         float64   `json:"peRatio"`
	PBRatio         float64   `json:"pbRatio"`
	PSRatio         float64   `json:"psRatio"`
	ROE             float64   `json:"roe"`
	ROA             float64   `json:"roa"`
	ROI             float64   `json:"roi"`
	DebtToEquity    float64   `json:"debtToEquity"`
	CurrentRatio    float64   `json:"currentRatio"`
	QuickRatio      float64   `json:"quickRatio"`
	GrossMargin     float64   `json:"grossMargin"`
	OperatingMargin float64   `json:"operatingMargin"`
	NetMargin       float64   `json:"netMargin"`
}

// FundamentalsSummary is the latest profile, income statement and
// ratio data for a symbol joined into one row. Fields are nil when the
// underlying table has no row for the symbol.
type FundamentalsSummary struct {
	Symbol       string   `json:"symbol"`
	CompanyName  *string  `json:"companyName,omitempty"`
	Sector       *string  `json:"sector,omitempty"`
	Industry     *string  `json:"industry,omitempty"`
	MarketCap    *float64 `json:"marketCap,omitempty"`
	Revenue      *float64 `json:"revenue,omitempty"`
	NetIncome    *float64 `json:"netIncome,omitempty"`
	EPS          *float64 `json:"eps,omitempty"`
	PERatio      *float64 `json:"peRatio,omitempty"`
	PBRatio      *float64 `json:"pbRatio,omitempty"`
	ROE          *float64 `json:"roe,omitempty"`
	DebtToEquity *float64 `json:"debtToEquity,omitempty"`
}

// HealthScore is a derived composite score in [0, 100]; it is computed
// on demand and never persisted.
type HealthScore struct {
	Symbol    string             `json:"symbol"`
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}
