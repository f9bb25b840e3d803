package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a symbol and the number of shares of it currently owned by a user.
type Holding struct {
	Symbol  string          `json:"stockSymbol"`
	Shares  int64           `json:"shares"`
	AvgCost decimal.Decimal `json:"avgCost"`
}

// Portfolio is the current state of a user's account.
type Portfolio struct {
	CashBalance decimal.Decimal `json:"cashBalance"`
	Holdings    []Holding       `json:"holdings"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PortfolioHistoryPoint is the total account value on a single calendar day.
type PortfolioHistoryPoint struct {
	Date       time.Time       // Midnight UTC of the day
	TotalValue decimal.Decimal // Cash plus the value of every positive holding
}

// DateKey formats the point's date as YYYY-MM-DD.
func (p PortfolioHistoryPoint) DateKey() string {
	return p.Date.Format(DateLayout)
}
