package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/yahoo"
)

const (
	// QuoteCacheTTL is how long a fetched quote is served before Yahoo is asked again.
	QuoteCacheTTL = time.Minute

	// TrendingLimit is the number of trending symbols returned.
	TrendingLimit = 5

	trendingRegion   = "US"
	quoteConcurrency = 8
)

// MarketService serves market data lookups: symbol history, quotes and trending symbols.
type MarketService struct {
	yahooClient yahoo.Client
	quotes      *cache.Cache
	now         func() time.Time
}

// NewMarketService creates a new MarketService backed by the given Yahoo client.
func NewMarketService(yahooClient yahoo.Client) *MarketService {
	return &MarketService{
		yahooClient: yahooClient,
		quotes:      cache.New(QuoteCacheTTL, 5*QuoteCacheTTL),
		now:         time.Now,
	}
}

// SearchSymbol returns the daily OHLCV history of symbol over the last HistoryYears years.
// Returns apperrors.ErrSymbolNotFound if Yahoo has no data for it.
func (s *MarketService) SearchSymbol(ctx context.Context, symbol string) (model.SymbolHistory, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	today := startOfDayUTC(s.now())

	raw, err := s.yahooClient.QueryYahooSymbolByDateRange(ctx, symbol, today.AddDate(-HistoryYears, 0, 0), today.AddDate(0, 0, 1))
	if err != nil {
		slog.DebugContext(ctx, "symbol search failed", "symbol", symbol, "error", err)
		return model.SymbolHistory{}, apperrors.ErrSymbolNotFound
	}
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return model.SymbolHistory{}, apperrors.ErrSymbolNotFound
	}

	bars := make([]model.DailyBar, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		bars = append(bars, model.DailyBar{
			Date:   ind.Date.Format(model.DateLayout),
			Open:   decimal.NewFromFloat(ind.PriceOpen),
			High:   decimal.NewFromFloat(ind.PriceHigh),
			Low:    decimal.NewFromFloat(ind.PriceLow),
			Close:  decimal.NewFromFloat(ind.PriceClose),
			Volume: ind.Volume,
		})
	}

	result := model.SymbolHistory{
		Symbol:   symbol,
		Name:     displayName(chart),
		Currency: chart.Currency,
		Exchange: chart.ExchangeName,
		Bars:     bars,
	}
	if latest, ok := chart.Latest(); ok {
		result.LastRefreshed = latest.Date.Format(model.DateLayout)
	}
	return result, nil
}

// GetQuotes returns the latest price and change of each requested symbol, keyed by symbol.
// Symbols Yahoo cannot quote are left out of the result.
func (s *MarketService) GetQuotes(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	result := make(map[string]model.Quote, len(symbols))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteConcurrency)

	seen := map[string]bool{}
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true

		g.Go(func() error {
			quote, err := s.getQuote(gctx, symbol)
			if err != nil {
				slog.WarnContext(gctx, "could not fetch quote", "symbol", symbol, "error", err)
				return nil
			}
			mu.Lock()
			result[symbol] = quote
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetTrending returns quotes for the top TrendingLimit trending US symbols, most active first.
func (s *MarketService) GetTrending(ctx context.Context) ([]model.Quote, error) {
	symbols, err := s.yahooClient.QueryYahooTrending(ctx, trendingRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending symbols: %w", err)
	}
	if len(symbols) > TrendingLimit {
		symbols = symbols[:TrendingLimit]
	}

	quotes, err := s.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, err
	}

	trending := make([]model.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		if q, ok := quotes[strings.ToUpper(symbol)]; ok {
			trending = append(trending, q)
		}
	}
	return trending, nil
}

func (s *MarketService) getQuote(ctx context.Context, symbol string) (model.Quote, error) {
	if cached, ok := s.quotes.Get(symbol); ok {
		return cached.(model.Quote), nil
	}

	raw, err := s.yahooClient.QueryYahooFiveDaySymbol(ctx, symbol)
	if err != nil {
		return model.Quote{}, err
	}
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return model.Quote{}, err
	}

	price := chart.RegularMarketPrice
	if price == 0 {
		latest, ok := chart.Latest()
		if !ok {
			return model.Quote{}, apperrors.ErrNoPriceData
		}
		price = latest.PriceClose
	}

	quote := model.Quote{
		Symbol: symbol,
		Name:   displayName(chart),
		Price:  decimal.NewFromFloat(price),
	}
	if chart.PreviousClose != 0 {
		quote.Change = quote.Price.Sub(decimal.NewFromFloat(chart.PreviousClose))
	}

	s.quotes.SetDefault(symbol, quote)
	return quote, nil
}

func displayName(chart yahoo.PriceChart) string {
	if chart.LongName != "" {
		return chart.LongName
	}
	if chart.Shortname != "" {
		return chart.Shortname
	}
	return chart.Symbol
}
