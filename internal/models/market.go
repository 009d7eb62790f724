package models

import "time"

// PriceBar is one OHLCV record for a symbol at a given timestamp and
// interval. Price fields are pointers because providers occasionally
// omit individual values; those are stored as NULL rather than zero.
type PriceBar struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Interval  string    `json:"interval"`
	Open      *float64  `json:"open,omitempty"`
	High      *float64  `json:"high,omitempty"`
	Low       *float64  `json:"low,omitempty"`
	Close     *float64  `json:"close,omitempty"`
	Volume    *int64    `json:"volume,omitempty"`
	SMA       *float64  `json:"sma,omitempty"`
	RSI       *float64  `json:"rsi,omitempty"`
}

// CollectionStats summarizes the stored price history.
type CollectionStats struct {
	TotalPriceRecords int64      `json:"totalPriceRecords"`
	UniqueSymbols     int64      `json:"uniqueSymbols"`
	LastUpdate        *time.Time `json:"lastUpdate,omitempty"`
}
