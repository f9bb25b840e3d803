package history

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// CloseSeries maps a calendar day (YYYY-MM-DD) to the symbol's closing price that day.
type CloseSeries map[string]decimal.Decimal

// Close returns the close recorded on day, if any.
func (s CloseSeries) Close(day time.Time) (decimal.Decimal, bool) {
	price, ok := s[day.Format(model.DateLayout)]
	return price, ok
}

// PriceHistorySource provides the full daily close history of a symbol.
// Implementations may call a market data provider, read a cache or return fixtures.
type PriceHistorySource interface {
	FetchHistoricalCloses(ctx context.Context, symbol string) (CloseSeries, error)
}

// PriceHistorySourceFunc adapts a function to PriceHistorySource.
type PriceHistorySourceFunc func(ctx context.Context, symbol string) (CloseSeries, error)

// FetchHistoricalCloses calls f.
func (f PriceHistorySourceFunc) FetchHistoricalCloses(ctx context.Context, symbol string) (CloseSeries, error) {
	return f(ctx, symbol)
}
