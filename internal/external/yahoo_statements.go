package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MigsBroedel/tradingAI/internal/models"
)

// FinancialStatements bundles the latest annual statements for one
// symbol. Any of the three may be nil when the source has no data.
type FinancialStatements struct {
	Income  *models.IncomeStatement
	Balance *models.BalanceSheet
	Cash    *models.CashFlow
}

// yfNumber is Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper.
type yfNumber struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

func num(v *yfNumber) float64 {
	if v == nil {
		return 0
	}
	return v.Raw
}

type yfStatement struct {
	EndDate *yfNumber `json:"endDate"`

	// income statement
	TotalRevenue           *yfNumber `json:"totalRevenue"`
	CostOfRevenue          *yfNumber `json:"costOfRevenue"`
	GrossProfit            *yfNumber `json:"grossProfit"`
	TotalOperatingExpenses *yfNumber `json:"totalOperatingExpenses"`
	OperatingIncome        *yfNumber `json:"operatingIncome"`
	NetIncome              *yfNumber `json:"netIncome"`
	DilutedEPS             *yfNumber `json:"dilutedEPS"`
	EBITDA                 *yfNumber `json:"ebitda"`

	// balance sheet
	TotalAssets             *yfNumber `json:"totalAssets"`
	TotalLiab               *yfNumber `json:"totalLiab"`
	TotalStockholderEquity  *yfNumber `json:"totalStockholderEquity"`
	Cash                    *yfNumber `json:"cash"`
	LongTermDebt            *yfNumber `json:"longTermDebt"`
	TotalCurrentAssets      *yfNumber `json:"totalCurrentAssets"`
	TotalCurrentLiabilities *yfNumber `json:"totalCurrentLiabilities"`

	// cash flow
	TotalCashFromOperatingActivities *yfNumber `json:"totalCashFromOperatingActivities"`
	TotalCashflowsFromInvesting      *yfNumber `json:"totalCashflowsFromInvestingActivities"`
	TotalCashFromFinancing           *yfNumber `json:"totalCashFromFinancingActivities"`
	CapitalExpenditures              *yfNumber `json:"capitalExpenditures"`
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			IncomeStatementHistory struct {
				Statements []yfStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			BalanceSheetHistory struct {
				Statements []yfStatement `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			CashflowStatementHistory struct {
				Statements []yfStatement `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFinancialStatements returns the most recent annual income
// statement, balance sheet and cash flow for a symbol. A symbol with
// no fundamentals coverage yields (nil, nil).
func (y *YahooClient) FetchFinancialStatements(ctx context.Context, symbol string) (*FinancialStatements, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory",
		y.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo statements fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo statements read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo statements: status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}

	var summary yahooQuoteSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo statements decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo statements api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	result := summary.QuoteSummary.Result[0]
	out := &FinancialStatements{}

	if stmts := result.IncomeStatementHistory.Statements; len(stmts) > 0 {
		s := stmts[0] // most recent fiscal year first
		out.Income = &models.IncomeStatement{
			Symbol:            symbol,
			Date:              statementDate(s.EndDate),
			Period:            "FY",
			Revenue:           num(s.TotalRevenue),
			CostOfRevenue:     num(s.CostOfRevenue),
			GrossProfit:       num(s.GrossProfit),
			OperatingExpenses: num(s.TotalOperatingExpenses),
			OperatingIncome:   num(s.OperatingIncome),
			NetIncome:         num(s.NetIncome),
			EPS:               num(s.DilutedEPS),
			EBITDA:            num(s.EBITDA),
		}
	}

	if stmts := result.BalanceSheetHistory.Statements; len(stmts) > 0 {
		s := stmts[0]
		out.Balance = &models.BalanceSheet{
			Symbol:           symbol,
			Date:             statementDate(s.EndDate),
			Period:           "FY",
			TotalAssets:      num(s.TotalAssets),
			TotalLiabilities: num(s.TotalLiab),
			TotalEquity:      num(s.TotalStockholderEquity),
			Cash:             num(s.Cash),
			TotalDebt:        num(s.LongTermDebt),
			WorkingCapital:   num(s.TotalCurrentAssets) - num(s.TotalCurrentLiabilities),
		}
	}

	if stmts := result.CashflowStatementHistory.Statements; len(stmts) > 0 {
		s := stmts[0]
		operating := num(s.TotalCashFromOperatingActivities)
		capex := num(s.CapitalExpenditures) // reported negative
		out.Cash = &models.CashFlow{
			Symbol:            symbol,
			Date:              statementDate(s.EndDate),
			Period:            "FY",
			OperatingCashFlow: operating,
			InvestingCashFlow: num(s.TotalCashflowsFromInvesting),
			FinancingCashFlow: num(s.TotalCashFromFinancing),
			FreeCashFlow:      operating + capex,
			CapEx:             capex,
		}
	}

	if out.Income == nil && out.Balance == nil && out.Cash == nil {
		return nil, nil
	}
	return out, nil
}

func statementDate(endDate *yfNumber) time.Time {
	if endDate == nil {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	return time.Unix(int64(endDate.Raw), 0).UTC()
}
