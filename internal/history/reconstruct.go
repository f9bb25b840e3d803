// Package history rebuilds a user's daily portfolio value from their transaction log.
//
// The reconstruction has three phases:
//  1. Replay: transactions are sorted by timestamp and swept through a dense
//     calendar of days from account creation to today, producing the cash balance
//     and holdings at the end of every day.
//  2. Price resolution: the close history of every symbol ever held with positive
//     shares is fetched once, concurrently.
//  3. Valuation: each day is valued as cash plus shares times the close on that day,
//     falling back to the most recent close within LookbackDays.
package history

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// LookbackDays is how many calendar days before a date are searched for a close
// when the date itself has none. Beyond the window the holding is valued at zero.
const LookbackDays = 6

// DefaultFetchConcurrency bounds simultaneous price history fetches per reconstruction.
const DefaultFetchConcurrency = 4

// Reconstructor produces daily portfolio value series. It holds no per-request state
// and is safe for concurrent use.
type Reconstructor struct {
	source      PriceHistorySource
	now         func() time.Time
	logger      *slog.Logger
	concurrency int
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(r *Reconstructor) { r.now = now }
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconstructor) { r.logger = logger }
}

// WithFetchConcurrency bounds the number of symbols fetched at once. Values below 1 are ignored.
func WithFetchConcurrency(n int) Option {
	return func(r *Reconstructor) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewReconstructor creates a Reconstructor reading close prices from source.
func NewReconstructor(source PriceHistorySource, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		source:      source,
		now:         time.Now,
		logger:      slog.Default(),
		concurrency: DefaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// dailyState is the account state at the end of a day. Days between two
// transactions share the same holdings map, which is never mutated once stored.
type dailyState struct {
	day      time.Time
	cash     decimal.Decimal
	holdings map[string]int64
}

// Reconstruct returns one point per calendar day from creationDate to today (UTC, inclusive),
// ordered by date. Days whose total value is not positive are omitted. An empty
// transaction log yields an empty series.
//
// Price fetch failures never fail the reconstruction: the affected symbol is logged
// and valued at zero on every day.
func (r *Reconstructor) Reconstruct(ctx context.Context, creationDate time.Time, transactions []model.Transaction) []model.PortfolioHistoryPoint {
	if len(transactions) == 0 {
		return []model.PortfolioHistoryPoint{}
	}

	timeline := replay(startOfDay(creationDate), startOfDay(r.now()), transactions)
	if len(timeline) == 0 {
		return []model.PortfolioHistoryPoint{}
	}

	prices := r.fetchPrices(ctx, heldSymbols(timeline))

	points := make([]model.PortfolioHistoryPoint, 0, len(timeline))
	for _, state := range timeline {
		total := state.cash
		for symbol, shares := range state.holdings {
			if shares <= 0 {
				continue
			}
			price, ok := resolvePrice(prices[symbol], state.day)
			if !ok {
				continue
			}
			total = total.Add(price.Mul(decimal.NewFromInt(shares)))
		}
		if !total.IsPositive() {
			continue
		}
		points = append(points, model.PortfolioHistoryPoint{Date: state.day, TotalValue: total})
	}
	return points
}

// replay sweeps the transactions, sorted by timestamp with log order as the tiebreak,
// through every day in [start, end]. A transaction applies to the day it falls on and
// every day after it; transactions dated before start apply from start onward.
func replay(start, end time.Time, transactions []model.Transaction) []dailyState {
	if start.After(end) {
		return nil
	}

	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	cash := model.StartingCash
	holdings := map[string]int64{}
	timeline := make([]dailyState, 0, int(end.Sub(start).Hours()/24)+1)

	next := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if next < len(sorted) && !startOfDay(sorted[next].Timestamp).After(day) {
			holdings = maps.Clone(holdings)
			for next < len(sorted) && !startOfDay(sorted[next].Timestamp).After(day) {
				cash = apply(cash, holdings, sorted[next])
				next++
			}
		}
		timeline = append(timeline, dailyState{day: day, cash: cash, holdings: holdings})
	}
	return timeline
}

// apply updates holdings in place and returns the new cash balance.
// A holding that reaches exactly zero shares is removed.
func apply(cash decimal.Decimal, holdings map[string]int64, tx model.Transaction) decimal.Decimal {
	switch tx.Type {
	case model.TransactionTypeBuy:
		cash = cash.Sub(tx.Amount())
		holdings[tx.Symbol] += tx.Shares
	case model.TransactionTypeSell:
		cash = cash.Add(tx.Amount())
		holdings[tx.Symbol] -= tx.Shares
	}
	if holdings[tx.Symbol] == 0 {
		delete(holdings, tx.Symbol)
	}
	return cash
}

// heldSymbols returns, sorted, every symbol held with positive shares on at least one day.
func heldSymbols(timeline []dailyState) []string {
	seen := map[string]bool{}
	var last map[string]int64
	for _, state := range timeline {
		// Consecutive days usually share one snapshot.
		if last != nil && maps.Equal(last, state.holdings) {
			continue
		}
		last = state.holdings
		for symbol, shares := range state.holdings {
			if shares > 0 {
				seen[symbol] = true
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// fetchPrices loads every symbol's close series concurrently. Symbols whose fetch
// fails are absent from the result.
func (r *Reconstructor) fetchPrices(ctx context.Context, symbols []string) map[string]CloseSeries {
	prices := make(map[string]CloseSeries, len(symbols))
	if len(symbols) == 0 {
		return prices
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			series, err := r.source.FetchHistoricalCloses(ctx, symbol)
			if err != nil {
				r.logger.WarnContext(ctx, "could not fetch historical closes, excluding symbol from portfolio history",
					"symbol", symbol,
					"error", err,
				)
				return nil
			}
			mu.Lock()
			prices[symbol] = series
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return prices
}

// resolvePrice returns the close on day or, failing that, the most recent close
// within LookbackDays before it.
func resolvePrice(series CloseSeries, day time.Time) (decimal.Decimal, bool) {
	if series == nil {
		return decimal.Decimal{}, false
	}
	for i := 0; i <= LookbackDays; i++ {
		if price, ok := series.Close(day.AddDate(0, 0, -i)); ok {
			return price, true
		}
	}
	return decimal.Decimal{}, false
}

// startOfDay truncates t to midnight UTC of its UTC calendar day.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
