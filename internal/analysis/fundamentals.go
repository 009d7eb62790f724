// Package analysis derives composite scores from stored fundamentals.
package analysis

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/MigsBroedel/tradingAI/internal/models"
)

// SummarySource is the slice of storage the scorer reads from.
type SummarySource interface {
	GetFundamentalsSummary(ctx context.Context, symbol string) (*models.FundamentalsSummary, error)
}

// Scorer computes financial-health scores from the latest stored
// profile, income statement and ratios of a symbol. Scoring is
// lenient: a missing snapshot or a lookup failure scores zero instead
// of propagating an error.
type Scorer struct {
	store SummarySource
	log   logrus.FieldLogger
}

func NewScorer(store SummarySource, log logrus.FieldLogger) *Scorer {
	return &Scorer{store: store, log: log}
}

// HealthScore returns a 0-100 composite of four equally weighted
// factors: profitability (ROE), valuation (P/E), leverage
// (debt/equity) and scale (revenue).
func (s *Scorer) HealthScore(ctx context.Context, symbol string) models.HealthScore {
	summary, err := s.store.GetFundamentalsSummary(ctx, symbol)
	if err != nil {
		s.log.Errorf("fundamentals summary for %s: %v", symbol, err)
		return models.HealthScore{Symbol: symbol, Breakdown: map[string]float64{}}
	}
	if summary == nil {
		s.log.Warnf("no fundamentals found for %s", symbol)
		return models.HealthScore{Symbol: symbol, Breakdown: map[string]float64{}}
	}

	breakdown := map[string]float64{
		"profitability": profitabilityScore(summary.ROE),
		"valuation":     valuationScore(summary.PERatio),
		"debt":          leverageScore(summary.DebtToEquity),
		"growth":        scaleScore(summary.Revenue),
	}
	var total float64
	for _, v := range breakdown {
		total += v
	}

	s.log.Infof("financial health score for %s: %.0f/100", symbol, total)
	return models.HealthScore{Symbol: symbol, Total: total, Breakdown: breakdown}
}

func profitabilityScore(roe *float64) float64 {
	if roe == nil || *roe <= 0 {
		return 0
	}
	switch {
	case *roe > 20:
		return 25
	case *roe > 15:
		return 20
	case *roe > 10:
		return 15
	case *roe > 5:
		return 10
	default:
		return 5
	}
}

func valuationScore(pe *float64) float64 {
	if pe == nil || *pe <= 0 {
		return 0
	}
	switch {
	case *pe < 15:
		return 25
	case *pe < 20:
		return 20
	case *pe < 25:
		return 15
	case *pe < 35:
		return 10
	default:
		return 5
	}
}

// leverageScore is scored whenever the ratio is present, including
// zero and negative equity cases.
func leverageScore(debtToEquity *float64) float64 {
	if debtToEquity == nil {
		return 0
	}
	switch {
	case *debtToEquity < 0.3:
		return 25
	case *debtToEquity < 0.5:
		return 20
	case *debtToEquity < 1.0:
		return 15
	case *debtToEquity < 2.0:
		return 10
	default:
		return 5
	}
}

func scaleScore(revenue *float64) float64 {
	if revenue == nil || *revenue <= 0 {
		return 0
	}
	switch {
	case *revenue > 50e9:
		return 25
	case *revenue > 10e9:
		return 20
	case *revenue > 1e9:
		return 15
	case *revenue > 100e6:
		return 10
	default:
		return 5
	}
}

// RankedCompany is one row of a fundamentals ranking.
type RankedCompany struct {
	Symbol    string             `json:"symbol"`
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// RankByFundamentals scores every symbol and returns those with a
// positive score, best first. Exchange-suffixed tickers are skipped
// because the fundamentals providers do not cover them.
func (s *Scorer) RankByFundamentals(ctx context.Context, symbols []string) []RankedCompany {
	var ranked []RankedCompany
	for _, symbol := range symbols {
		if strings.Contains(symbol, ".") {
			continue
		}
		hs := s.HealthScore(ctx, symbol)
		if hs.Total > 0 {
			ranked = append(ranked, RankedCompany{Symbol: hs.Symbol, Total: hs.Total, Breakdown: hs.Breakdown})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	return ranked
}

// UndervaluedSymbols returns the symbols trading below peThreshold
// with ROE above 10. Lookup failures skip the symbol.
func (s *Scorer) UndervaluedSymbols(ctx context.Context, symbols []string, peThreshold float64) []string {
	var undervalued []string
	for _, symbol := range symbols {
		if strings.Contains(symbol, ".") {
			continue
		}
		summary, err := s.store.GetFundamentalsSummary(ctx, symbol)
		if err != nil {
			s.log.Errorf("fundamentals summary for %s: %v", symbol, err)
			continue
		}
		if summary == nil || summary.PERatio == nil || summary.ROE == nil {
			continue
		}
		if *summary.PERatio > 0 && *summary.PERatio < peThreshold && *summary.ROE > 10 {
			s.log.Infof("%s potentially undervalued: P/E=%.2f ROE=%.2f", symbol, *summary.PERatio, *summary.ROE)
			undervalued = append(undervalued, symbol)
		}
	}
	return undervalued
}
