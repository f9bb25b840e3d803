package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID or email does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoPriceData indicates that the market data provider returned no prices for a symbol.
	ErrNoPriceData = errors.New("no price data available")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientFunds indicates that a buy order costs more than the available cash.
	ErrInsufficientFunds = errors.New("not enough cash to make this purchase")

	// ErrInsufficientShares indicates that a sell order exceeds the shares held.
	ErrInsufficientShares = errors.New("not enough shares to sell")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidCredentials indicates a failed login. It does not say which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates a bearer token that failed verification or has expired.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrInvalidSymbol = errors.New("symbol is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrievePortfolio    = errors.New("failed to retrieve portfolio")
	ErrFailedToGetPortfolioHistory  = errors.New("failed to get portfolio history")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToExecuteTrade         = errors.New("failed to execute trade")
	ErrFailedToRetrieveQuotes       = errors.New("failed to retrieve quotes")
	ErrFailedToRetrieveTrending     = errors.New("failed to load trending stocks")
	ErrFailedToRefreshPrices        = errors.New("failed to refresh prices")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)
