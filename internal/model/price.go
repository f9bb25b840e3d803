package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for keys, storage and JSON.
const DateLayout = "2006-01-02"

// ClosePrice is the recorded closing price of a symbol on a calendar day.
type ClosePrice struct {
	Symbol string
	Date   time.Time
	Close  decimal.Decimal
}

// Quote is the latest price of a symbol and its change from the previous close.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name,omitempty"`
	Price  decimal.Decimal `json:"price"`
	Change decimal.Decimal `json:"change"`
}

// DailyBar is one day of OHLCV data.
type DailyBar struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// SymbolHistory is the full daily history of a symbol returned by a search.
type SymbolHistory struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	Currency      string     `json:"currency"`
	Exchange      string     `json:"exchange"`
	LastRefreshed string     `json:"lastRefreshed"`
	Bars          []DailyBar `json:"bars"`
}
