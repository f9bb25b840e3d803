package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls and is
// safe for concurrent use.
type MockYahooClient struct {
	mu sync.Mutex

	// MockResponse is the response to return from chart queries for symbols without an entry in Responses
	MockResponse yahoo.Response
	// Responses overrides MockResponse per upper-case symbol
	Responses map[string]yahoo.Response
	// Errors makes chart queries for the given upper-case symbol fail
	Errors map[string]error
	// MockError is the error to return from every query method
	MockError error
	// Trending is returned by QueryYahooTrending
	Trending []string

	queryCount int
	queried    []string
	release    <-chan struct{}
	started    chan struct{}
}

// NewMockYahooClient creates a new mock Yahoo client with default test data.
// The default data includes 5 days of historical prices suitable for testing.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockResponse: CreateMockYahooResponse(5),
		Responses:    map[string]yahoo.Response{},
		Errors:       map[string]error{},
	}
}

// QueryYahooFiveDaySymbol mocks the 5-day symbol query with predefined test data.
func (m *MockYahooClient) QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (yahoo.Response, error) {
	return m.respond(ctx, symbol)
}

// QueryYahooSymbolByDateRange mocks the date range query with predefined test data.
// The date range is not applied.
func (m *MockYahooClient) QueryYahooSymbolByDateRange(ctx context.Context, symbol string, _, _ time.Time) (yahoo.Response, error) {
	return m.respond(ctx, symbol)
}

// QueryYahooTrending returns the configured Trending symbols.
func (m *MockYahooClient) QueryYahooTrending(ctx context.Context, _ string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MockError != nil {
		return nil, m.MockError
	}
	return append([]string(nil), m.Trending...), nil
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	// Use the real implementation for parsing since it's deterministic
	client := yahoo.NewFinanceClient()
	return client.ParseChart(yahooResult)
}

// QueryCount returns how many chart queries were made.
func (m *MockYahooClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCount
}

// QueriedSymbols returns the symbols of all chart queries in call order.
func (m *MockYahooClient) QueriedSymbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queried...)
}

func (m *MockYahooClient) respond(ctx context.Context, symbol string) (yahoo.Response, error) {
	m.mu.Lock()
	m.queryCount++
	m.queried = append(m.queried, symbol)
	release, started := m.release, m.started
	m.mu.Unlock()

	if release != nil {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-ctx.Done():
			return yahoo.Response{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return yahoo.Response{}, err
	}
	if m.MockError != nil {
		return yahoo.Response{}, m.MockError
	}
	key := strings.ToUpper(symbol)
	if err, ok := m.Errors[key]; ok {
		return yahoo.Response{}, err
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}
	return m.MockResponse, nil
}

// WithGate holds every chart query until release is closed or the query's context ends.
// Started receives a value when the first held query begins.
func (m *MockYahooClient) WithGate(release <-chan struct{}) *MockYahooClient {
	m.release = release
	m.started = make(chan struct{}, 1)
	return m
}

// Started signals that a query is waiting on the gate set by WithGate.
func (m *MockYahooClient) Started() <-chan struct{} {
	return m.started
}

// WithError configures the mock to return the specified error.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithResponse configures the mock to return the specified response.
func (m *MockYahooClient) WithResponse(resp yahoo.Response) *MockYahooClient {
	m.MockResponse = resp
	return m
}

// WithSymbolResponse configures the response for a single symbol.
func (m *MockYahooClient) WithSymbolResponse(symbol string, resp yahoo.Response) *MockYahooClient {
	m.Responses[strings.ToUpper(symbol)] = resp
	return m
}

// WithSymbolError makes queries for a single symbol fail.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	m.Errors[strings.ToUpper(symbol)] = err
	return m
}

// WithTrending configures the trending symbols.
func (m *MockYahooClient) WithTrending(symbols ...string) *MockYahooClient {
	m.Trending = symbols
	return m
}

// WithEmptyResponse configures the mock to return an empty response (no data).
func (m *MockYahooClient) WithEmptyResponse() *MockYahooClient {
	m.MockResponse = yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
		},
	}
	return m
}

// CreateMockYahooResponse creates a mock Yahoo Finance API response with test data.
// The response includes `days` number of days of price data, ending yesterday.
// Closes are 100.25, 100.75, 101.25, ... in date order.
func CreateMockYahooResponse(days int) yahoo.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	closes := make([]float64, days)
	for i := range closes {
		closes[i] = 100.0 + float64(i)*0.5 + 0.25
	}
	return CreateMockYahooResponseFromCloses("TEST", yesterday.AddDate(0, 0, -days+1), closes)
}

// CreateMockYahooResponseFromCloses creates a response with one trading day per close,
// starting at start and advancing one calendar day per entry. Open/high/low are derived
// from the close; meta prices are set from the last two closes.
func CreateMockYahooResponseFromCloses(symbol string, start time.Time, closes []float64) yahoo.Response {
	start = start.UTC()
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	n := len(closes)
	timestamps := make([]int64, n)
	opens := make([]*float64, n)
	highs := make([]*float64, n)
	lows := make([]*float64, n)
	closePtrs := make([]*float64, n)
	volumes := make([]*int64, n)

	for i, c := range closes {
		// Timestamps are at market open, 14:30 UTC.
		timestamps[i] = start.AddDate(0, 0, i).Add(14*time.Hour + 30*time.Minute).Unix()

		open := c - 0.25
		high := c + 0.75
		low := c - 0.75
		closePrice := c
		volume := int64(1000000 + i*10000)

		opens[i] = &open
		highs[i] = &high
		lows[i] = &low
		closePtrs[i] = &closePrice
		volumes[i] = &volume
	}

	meta := yahoo.Meta{
		Symbol:           symbol,
		Currency:         "USD",
		ExchangeName:     "NMS",
		FullExchangeName: "NASDAQ",
		LongName:         symbol + " Test Inc.",
		Shortname:        symbol,
	}
	if n > 0 {
		last := closes[n-1]
		meta.RegularMarketPrice = &last
	}
	if n > 1 {
		prev := closes[n-2]
		meta.ChartPreviousClose = &prev
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta:      meta,
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{
							{
								Open:   opens,
								High:   highs,
								Low:    lows,
								Close:  closePtrs,
								Volume: volumes,
							},
						},
					},
				},
			},
			Error: nil,
		},
	}
}

// CreateMockYahooResponseForDate creates a mock Yahoo response with a single day's data.
// Useful for testing specific date scenarios.
func CreateMockYahooResponseForDate(date time.Time, price float64) yahoo.Response {
	return CreateMockYahooResponseFromCloses("TEST", date, []float64{price})
}

// CreateMockYahooErrorResponse creates a mock Yahoo response with an error.
// Useful for testing error handling scenarios.
func CreateMockYahooErrorResponse(errorMsg string) yahoo.Response {
	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
			Error:  &yahoo.Error{Code: "Not Found", Description: errorMsg},
		},
	}
}
