package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// AlphaVantageClient fetches company overview data. The free tier only
// covers primary-exchange US listings, so exchange-suffixed tickers
// are reported as unsupported.
type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    "https://www.alphavantage.co",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *AlphaVantageClient) Supports(symbol string) bool {
	return !strings.Contains(symbol, ".")
}

// CompanyOverview is the parsed OVERVIEW payload. Alpha Vantage ships
// every field as a string; absent or "None" fields parse to zero.
type CompanyOverview struct {
	Symbol      string
	Name        string
	Sector      string
	Industry    string
	Description string
	Website     string
	Country     string
	Currency    string
	Exchange    string
	MarketCap   float64
	Employees   int64

	PERatio         float64
	PBRatio         float64
	PSRatio         float64
	ROE             float64
	ROA             float64
	DebtToEquity    float64
	CurrentRatio    float64
	QuickRatio      float64
	GrossMargin     float64
	OperatingMargin float64
	NetMargin       float64
}

type overviewResponse struct {
	Symbol       string `json:"Symbol"`
	Name         string `json:"Name"`
	Sector       string `json:"Sector"`
	Industry     string `json:"Industry"`
	Description  string `json:"Description"`
	Website      string `json:"Website"`
	OfficialSite string `json:"OfficialSite"`
	Country      string `json:"Country"`
	Currency     string `json:"Currency"`
	Exchange     string `json:"Exchange"`

	MarketCapitalization string `json:"MarketCapitalization"`
	FullTimeEmployees    string `json:"FullTimeEmployees"`

	PERatio              string `json:"PERatio"`
	PriceToBookRatio     string `json:"PriceToBookRatio"`
	PriceToSalesRatioTTM string `json:"PriceToSalesRatioTTM"`
	ReturnOnEquityTTM    string `json:"ReturnOnEquityTTM"`
	ReturnOnAssetsTTM    string `json:"ReturnOnAssetsTTM"`
	DebtToEquity         string `json:"DebtToEquity"`
	CurrentRatio         string `json:"CurrentRatio"`
	QuickRatio           string `json:"QuickRatio"`
	GrossMarginTTM       string `json:"GrossMarginTTM"`
	OperatingMarginTTM   string `json:"OperatingMarginTTM"`
	ProfitMargin         string `json:"ProfitMargin"`

	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// FetchOverview returns the company overview for a symbol, or
// (nil, nil) when the provider has no data for it.
func (c *AlphaVantageClient) FetchOverview(ctx context.Context, symbol string) (*CompanyOverview, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}

	var parsed overviewResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if parsed.Note != "" {
		return nil, fmt.Errorf("alphavantage rate limit: %s", parsed.Note)
	}
	if parsed.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage api error: %s", parsed.ErrorMessage)
	}
	if parsed.Symbol == "" {
		return nil, nil
	}

	website := parsed.Website
	if website == "" {
		website = parsed.OfficialSite
	}

	return &CompanyOverview{
		Symbol:          parsed.Symbol,
		Name:            parsed.Name,
		Sector:          parsed.Sector,
		Industry:        parsed.Industry,
		Description:     parsed.Description,
		Website:         website,
		Country:         parsed.Country,
		Currency:        parsed.Currency,
		Exchange:        parsed.Exchange,
		MarketCap:       avFloat(parsed.MarketCapitalization),
		Employees:       avInt(parsed.FullTimeEmployees),
		PERatio:         avFloat(parsed.PERatio),
		PBRatio:         avFloat(parsed.PriceToBookRatio),
		PSRatio:         avFloat(parsed.PriceToSalesRatioTTM),
		ROE:             avFloat(parsed.ReturnOnEquityTTM),
		ROA:             avFloat(parsed.ReturnOnAssetsTTM),
		DebtToEquity:    avFloat(parsed.DebtToEquity),
		CurrentRatio:    avFloat(parsed.CurrentRatio),
		QuickRatio:      avFloat(parsed.QuickRatio),
		GrossMargin:     avFloat(parsed.GrossMarginTTM),
		OperatingMargin: avFloat(parsed.OperatingMarginTTM),
		NetMargin:       avFloat(parsed.ProfitMargin),
	}, nil
}

func avFloat(s string) float64 {
	if s == "" || s == "None" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func avInt(s string) int64 {
	if s == "" || s == "None" || s == "-" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
