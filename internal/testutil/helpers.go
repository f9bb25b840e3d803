package testutil

import (
	"database/sql"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/history"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/yahoo"
)

// TestJWTSecret signs tokens issued by services built with NewTestUserService.
const TestJWTSecret = "test-jwt-secret"

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	return service.NewUserService(
		repository.NewUserRepository(db),
		TestJWTSecret,
		time.Hour,
	)
}

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	return service.NewTradeService(
		db,
		repository.NewUserRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
	)
}

// NewTestPortfolioService creates a PortfolioService whose history is valued from source.
// Reconstructor options such as history.WithClock are passed through.
func NewTestPortfolioService(t *testing.T, db *sql.DB, source history.PriceHistorySource, opts ...history.Option) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewUserRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		history.NewReconstructor(source, opts...),
	)
}

// NewTestPriceService creates a PriceService with a mock Yahoo client for testing.
func NewTestPriceService(t *testing.T, db *sql.DB, mockYahoo yahoo.Client) *service.PriceService {
	t.Helper()

	return service.NewPriceService(
		repository.NewClosePriceRepository(db),
		repository.NewHoldingRepository(db),
		mockYahoo,
		time.Minute,
		2,
	)
}

func NewTestMarketService(t *testing.T, mockYahoo yahoo.Client) *service.MarketService {
	t.Helper()

	return service.NewMarketService(mockYahoo)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeEmail generates a unique lower-case email address for testing.
//
// Example usage:
//
//	email := testutil.MakeEmail("jane")
//	// Returns: "jane.ab12cd@example.com"
func MakeEmail(local string) string {
	if local == "" {
		local = "user"
	}
	return local + "." + strings.ToLower(randomAlphanumeric(6)) + "@example.com"
}

// MakeFullName generates a unique display name for testing.
func MakeFullName(base string) string {
	if base == "" {
		base = "User"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
