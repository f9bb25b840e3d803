package request

import "github.com/shopspring/decimal"

// TradeRequest represents the request body for placing an order.
// Price accepts a JSON number or a quoted decimal string.
type TradeRequest struct {
	Symbol string          `json:"symbol"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Type   string          `json:"type"`
}
