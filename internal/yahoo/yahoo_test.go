package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "XYZ", "exchangeName": "NMS", "longName": "XYZ Corp", "regularMarketPrice": 102.5, "chartPreviousClose": 100},
      "timestamp": [1704205800, 1704292200, 1704378600],
      "indicators": {"quote": [{
        "open":   [99.0, null, 101.0],
        "close":  [100.0, null, 102.5],
        "high":   [101.0, null, 103.0],
        "low":    [98.0, null, 100.5],
        "volume": [1000, null, 1200]
      }]}
    }],
    "error": null
  }
}`

func TestParseChart(t *testing.T) {
	client := NewFinanceClient()

	t.Run("skips null closes and truncates dates to UTC midnight", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(chartJSON)) //nolint:errcheck // test server
		}))
		defer srv.Close()

		raw, err := NewFinanceClientWithBaseURL(srv.URL).QueryYahooFiveDaySymbol(context.Background(), "XYZ")
		if err != nil {
			t.Fatalf("QueryYahooFiveDaySymbol() returned unexpected error: %v", err)
		}

		chart, err := client.ParseChart(raw)
		if err != nil {
			t.Fatalf("ParseChart() returned unexpected error: %v", err)
		}

		if len(chart.Indicators) != 2 {
			t.Fatalf("Expected 2 indicators, got %d", len(chart.Indicators))
		}
		want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		if !chart.Indicators[0].Date.Equal(want) {
			t.Errorf("Expected first date %s, got %s", want, chart.Indicators[0].Date)
		}
		if chart.Indicators[1].PriceClose != 102.5 {
			t.Errorf("Expected last close 102.5, got %v", chart.Indicators[1].PriceClose)
		}
		if chart.RegularMarketPrice != 102.5 || chart.PreviousClose != 100 {
			t.Errorf("Unexpected meta prices: %+v", chart)
		}
		if chart.LongName != "XYZ Corp" {
			t.Errorf("Expected long name, got %q", chart.LongName)
		}
	})

	t.Run("rejects empty results", func(t *testing.T) {
		if _, err := client.ParseChart(Response{}); err == nil {
			t.Error("Expected error for empty response")
		}
	})

	t.Run("rejects mismatched lengths", func(t *testing.T) {
		one := 1.0
		raw := Response{Chart: Chart{Result: []Result{{
			Timestamp:  []int64{1, 2},
			Indicators: IndicatorsContainer{Quote: []Quote{{Close: []*float64{&one}}}},
		}}}}

		if _, err := client.ParseChart(raw); err == nil {
			t.Error("Expected error for mismatched data lengths")
		}
	})
}

func TestFinanceClient_Queries(t *testing.T) {
	t.Run("date range query sends period parameters", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Write([]byte(chartJSON)) //nolint:errcheck // test server
		}))
		defer srv.Close()

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		_, err := NewFinanceClientWithBaseURL(srv.URL).QueryYahooSymbolByDateRange(context.Background(), "XYZ", start, end)
		if err != nil {
			t.Fatalf("QueryYahooSymbolByDateRange() returned unexpected error: %v", err)
		}

		if !strings.Contains(gotQuery, "period1=1704067200") || !strings.Contains(gotQuery, "period2=1706659200") {
			t.Errorf("Unexpected query string: %s", gotQuery)
		}
	})

	t.Run("surfaces yahoo error object", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)) //nolint:errcheck // test server
		}))
		defer srv.Close()

		_, err := NewFinanceClientWithBaseURL(srv.URL).QueryYahooFiveDaySymbol(context.Background(), "NOPE")
		if err == nil || !strings.Contains(err.Error(), "delisted") {
			t.Errorf("Expected yahoo error, got %v", err)
		}
	})

	t.Run("trending returns symbols in order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/finance/trending/US" {
				t.Errorf("Unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"finance":{"result":[{"quotes":[{"symbol":"AAA"},{"symbol":"BBB"}]}],"error":null}}`)) //nolint:errcheck // test server
		}))
		defer srv.Close()

		symbols, err := NewFinanceClientWithBaseURL(srv.URL).QueryYahooTrending(context.Background(), "US")
		if err != nil {
			t.Fatalf("QueryYahooTrending() returned unexpected error: %v", err)
		}
		if len(symbols) != 2 || symbols[0] != "AAA" || symbols[1] != "BBB" {
			t.Errorf("Unexpected symbols: %v", symbols)
		}
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(chartJSON)) //nolint:errcheck // test server
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewFinanceClientWithBaseURL(srv.URL).QueryYahooFiveDaySymbol(ctx, "XYZ"); err == nil {
			t.Error("Expected error for cancelled context")
		}
	})
}

func TestPriceChart_GetIndicatorForDate(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	chart := PriceChart{Indicators: []Indicators{{Date: day, PriceClose: 10}}}

	ind, ok := chart.GetIndicatorForDate(day.Add(15 * time.Hour))
	if !ok || ind.PriceClose != 10 {
		t.Errorf("Expected match for same day, got %v %v", ind, ok)
	}
	if _, ok := chart.GetIndicatorForDate(day.AddDate(0, 0, 1)); ok {
		t.Error("Expected no match for next day")
	}
	latest, ok := chart.Latest()
	if !ok || !latest.Date.Equal(day) {
		t.Errorf("Unexpected latest: %v %v", latest, ok)
	}
}
