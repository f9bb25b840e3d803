package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/history"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/yahoo"
)

// HistoryYears is how far back a symbol's closes are fetched the first time it is seen.
const HistoryYears = 5

// PriceService is the close price source for portfolio history. Lookups go through an
// in-memory cache, then the close_price table, and only reach Yahoo for days not yet stored.
type PriceService struct {
	closePriceRepo *repository.ClosePriceRepository
	holdingRepo    *repository.HoldingRepository
	yahooClient    yahoo.Client
	cache          *cache.Cache
	group          singleflight.Group
	concurrency    int
	now            func() time.Time
}

var _ history.PriceHistorySource = (*PriceService)(nil)

// NewPriceService creates a new PriceService. Close series are kept in memory for cacheTTL.
// concurrency bounds the number of symbols refreshed at once by RefreshSymbols.
func NewPriceService(
	closePriceRepo *repository.ClosePriceRepository,
	holdingRepo *repository.HoldingRepository,
	yahooClient yahoo.Client,
	cacheTTL time.Duration,
	concurrency int,
) *PriceService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PriceService{
		closePriceRepo: closePriceRepo,
		holdingRepo:    holdingRepo,
		yahooClient:    yahooClient,
		cache:          cache.New(cacheTTL, 2*cacheTTL),
		concurrency:    concurrency,
		now:            time.Now,
	}
}

// sharedFetchTimeout bounds a lookup shared by concurrent callers. The lookup does not
// inherit cancellation from the caller that started it.
const sharedFetchTimeout = 2 * time.Minute

// FetchHistoricalCloses returns every known daily close of symbol.
//
// Concurrent calls for the same symbol share one lookup. A caller whose context ends
// returns early without failing the lookup for the others. If Yahoo cannot be reached
// but closes are already stored, the stored series is returned and the failure is
// only logged.
func (s *PriceService) FetchHistoricalCloses(ctx context.Context, symbol string) (history.CloseSeries, error) {
	symbol = strings.ToUpper(symbol)
	if cached, ok := s.cache.Get(symbol); ok {
		return cached.(history.CloseSeries), nil
	}

	ch := s.group.DoChan(symbol, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return s.lookup(fetchCtx, symbol)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(history.CloseSeries), nil
	}
}

// lookup back-fills symbol, loads its stored series and caches it.
func (s *PriceService) lookup(ctx context.Context, symbol string) (history.CloseSeries, error) {
	if err := s.backfill(ctx, symbol); err != nil {
		latest, stored, lerr := s.closePriceRepo.GetLatestDate(ctx, symbol)
		if lerr != nil || !stored {
			return nil, err
		}
		slog.WarnContext(ctx, "using stored closes after failed refresh",
			"symbol", symbol,
			"latest", latest.Format(model.DateLayout),
			"error", err,
		)
	}

	series, err := s.loadSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(symbol, series)
	return series, nil
}

// RefreshSymbols back-fills closes for every symbol currently held by any user and
// drops their in-memory series. It returns the number of symbols refreshed; per-symbol
// failures are joined into the returned error.
func (s *PriceService) RefreshSymbols(ctx context.Context) (int, error) {
	symbols, err := s.holdingRepo.GetHeldSymbols(ctx)
	if err != nil {
		return 0, err
	}

	var (
		mu        sync.Mutex
		errs      []error
		refreshed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			err := s.backfill(gctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
				return nil
			}
			s.cache.Delete(symbol)
			refreshed++
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	slog.InfoContext(ctx, "price refresh finished",
		"symbols", len(symbols),
		"refreshed", refreshed,
		"failed", len(errs),
	)
	return refreshed, errors.Join(errs...)
}

// backfill fetches and stores the closes between the last stored day and today.
// A symbol seen for the first time is fetched HistoryYears back.
func (s *PriceService) backfill(ctx context.Context, symbol string) error {
	today := startOfDayUTC(s.now())

	latest, stored, err := s.closePriceRepo.GetLatestDate(ctx, symbol)
	if err != nil {
		return err
	}

	start := today.AddDate(-HistoryYears, 0, 0)
	if stored {
		// The latest stored day is refetched: it may have been recorded intraday.
		if latest.Equal(today) {
			return nil
		}
		start = latest
	}

	raw, err := s.yahooClient.QueryYahooSymbolByDateRange(ctx, symbol, start, today.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("failed to query yahoo for %s: %w", symbol, err)
	}
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrNoPriceData, symbol, err)
	}

	closes := make([]model.ClosePrice, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		if ind.Date.Before(start) || ind.Date.After(today) {
			continue
		}
		closes = append(closes, model.ClosePrice{
			Symbol: symbol,
			Date:   ind.Date,
			Close:  decimal.NewFromFloat(ind.PriceClose),
		})
	}

	return s.closePriceRepo.UpsertCloses(ctx, closes)
}

func (s *PriceService) loadSeries(ctx context.Context, symbol string) (history.CloseSeries, error) {
	series := history.CloseSeries{}
	err := s.closePriceRepo.GetCloses(ctx, symbol, func(p model.ClosePrice) error {
		series[p.Date.Format(model.DateLayout)] = p.Close
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
