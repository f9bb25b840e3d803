package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

func TestMarketService_SearchSymbol(t *testing.T) {
	ctx := context.Background()

	t.Run("returns daily bars and metadata", func(t *testing.T) {
		// Setup
		start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		mock := testutil.NewMockYahooClient().
			WithSymbolResponse("ACME", testutil.CreateMockYahooResponseFromCloses("ACME", start, []float64{10, 11}))
		svc := testutil.NewTestMarketService(t, mock)

		// Execute
		result, err := svc.SearchSymbol(ctx, " acme ")

		// Assert
		if err != nil {
			t.Fatalf("SearchSymbol() returned unexpected error: %v", err)
		}
		if result.Symbol != "ACME" || result.Name != "ACME Test Inc." || result.Currency != "USD" {
			t.Errorf("Unexpected metadata: %+v", result)
		}
		if len(result.Bars) != 2 || result.Bars[1].Date != "2024-01-03" || !result.Bars[1].Close.Equal(decimal.NewFromInt(11)) {
			t.Errorf("Unexpected bars: %+v", result.Bars)
		}
		if result.LastRefreshed != "2024-01-03" {
			t.Errorf("Expected lastRefreshed 2024-01-03, got %s", result.LastRefreshed)
		}
	})

	t.Run("unknown symbol", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().WithSymbolError("NOPE", errors.New("no data"))
		svc := testutil.NewTestMarketService(t, mock)

		if _, err := svc.SearchSymbol(ctx, "NOPE"); !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
	})
}

// TestMarketService_GetQuotes tests quote fan-out and caching.
//
// WHY: The dashboard requests quotes for every holding at once; one bad symbol must
// not hide the others, and repeated polls should not hammer Yahoo.
func TestMarketService_GetQuotes(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("price and change from the last two closes", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().
			WithSymbolResponse("AAA", testutil.CreateMockYahooResponseFromCloses("AAA", start, []float64{100, 104.5})).
			WithSymbolResponse("BBB", testutil.CreateMockYahooResponseFromCloses("BBB", start, []float64{50, 48}))
		svc := testutil.NewTestMarketService(t, mock)

		quotes, err := svc.GetQuotes(ctx, []string{"aaa", "BBB", "AAA", ""})

		if err != nil {
			t.Fatalf("GetQuotes() returned unexpected error: %v", err)
		}
		if len(quotes) != 2 {
			t.Fatalf("Expected 2 quotes, got %d", len(quotes))
		}
		if q := quotes["AAA"]; !q.Price.Equal(decimal.RequireFromString("104.5")) || !q.Change.Equal(decimal.RequireFromString("4.5")) {
			t.Errorf("Unexpected AAA quote: %+v", q)
		}
		if q := quotes["BBB"]; !q.Change.Equal(decimal.NewFromInt(-2)) {
			t.Errorf("Unexpected BBB quote: %+v", q)
		}
		if mock.QueryCount() != 2 {
			t.Errorf("Expected duplicate symbols to be fetched once, got %d queries", mock.QueryCount())
		}
	})

	t.Run("failed symbols are omitted", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().
			WithSymbolResponse("AAA", testutil.CreateMockYahooResponseFromCloses("AAA", start, []float64{1, 2})).
			WithSymbolError("BAD", errors.New("boom"))
		svc := testutil.NewTestMarketService(t, mock)

		quotes, err := svc.GetQuotes(ctx, []string{"AAA", "BAD"})

		if err != nil {
			t.Fatalf("GetQuotes() returned unexpected error: %v", err)
		}
		if _, ok := quotes["BAD"]; ok || len(quotes) != 1 {
			t.Errorf("Expected only AAA, got %+v", quotes)
		}
	})

	t.Run("quotes are cached", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().
			WithSymbolResponse("AAA", testutil.CreateMockYahooResponseFromCloses("AAA", start, []float64{1, 2}))
		svc := testutil.NewTestMarketService(t, mock)

		for i := 0; i < 3; i++ {
			if _, err := svc.GetQuotes(ctx, []string{"AAA"}); err != nil {
				t.Fatalf("GetQuotes() returned unexpected error: %v", err)
			}
		}
		if mock.QueryCount() != 1 {
			t.Errorf("Expected 1 query, got %d", mock.QueryCount())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := testutil.NewTestMarketService(t, testutil.NewMockYahooClient())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := svc.GetQuotes(cctx, []string{"AAA"}); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestMarketService_GetTrending(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("top five in trending order", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().WithTrending("F", "E", "D", "C", "B", "A")
		for _, s := range []string{"A", "B", "C", "D", "E", "F"} {
			mock.WithSymbolResponse(s, testutil.CreateMockYahooResponseFromCloses(s, start, []float64{1, 2}))
		}
		svc := testutil.NewTestMarketService(t, mock)

		trending, err := svc.GetTrending(ctx)

		if err != nil {
			t.Fatalf("GetTrending() returned unexpected error: %v", err)
		}
		if len(trending) != 5 {
			t.Fatalf("Expected 5 trending quotes, got %d", len(trending))
		}
		want := []string{"F", "E", "D", "C", "B"}
		for i, q := range trending {
			if q.Symbol != want[i] {
				t.Errorf("Position %d: expected %s, got %s", i, want[i], q.Symbol)
			}
			if q.Name == "" {
				t.Errorf("Expected a name for %s", q.Symbol)
			}
		}
	})

	t.Run("trending failure", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().WithError(errors.New("down"))
		svc := testutil.NewTestMarketService(t, mock)

		if _, err := svc.GetTrending(ctx); err == nil {
			t.Error("Expected error")
		}
	})
}
