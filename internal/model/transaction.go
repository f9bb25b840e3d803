package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the side of an executed trade.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is an executed trade. Records are immutable and appended to the
// owning user's log in execution order.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Symbol        string          `json:"symbol"`
	Shares        int64           `json:"shares"`
	PricePerShare decimal.Decimal `json:"pricePerShare"`
	Type          TransactionType `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Amount returns shares multiplied by the price per share.
func (t Transaction) Amount() decimal.Decimal {
	return t.PricePerShare.Mul(decimal.NewFromInt(t.Shares))
}

// TradeRequest is a validated order ready for execution.
type TradeRequest struct {
	Symbol string
	Shares int64
	Price  decimal.Decimal
	Type   TransactionType
}
