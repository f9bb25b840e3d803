package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// DefaultPassword is the plain-text password of users built without WithPassword.
const DefaultPassword = "correct horse battery staple"

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithEmail("jane@example.com").
//	    WithCash(decimal.NewFromInt(500)).
//	    CreatedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type UserBuilder struct {
	ID          string
	FullName    string
	Email       string
	Password    string
	CashBalance decimal.Decimal
	Created     time.Time
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:          MakeID(),
		FullName:    MakeFullName("Test User"),
		Email:       MakeEmail("user"),
		Password:    DefaultPassword,
		CashBalance: model.StartingCash,
		Created:     time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithPassword sets the plain-text password that is hashed on Build.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.Password = password
	return b
}

// WithCash sets the cash balance.
func (b *UserBuilder) WithCash(cash decimal.Decimal) *UserBuilder {
	b.CashBalance = cash
	return b
}

// CreatedAt sets the account creation time.
func (b *UserBuilder) CreatedAt(t time.Time) *UserBuilder {
	b.Created = t.UTC()
	return b
}

// Build creates the user in the database and returns it.
// Passwords are hashed at bcrypt.MinCost to keep tests fast.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	query := `
		INSERT INTO user (id, full_name, email, password_hash, cash_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query, b.ID, b.FullName, b.Email, string(hash), b.CashBalance.String(), b.Created.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		FullName:     b.FullName,
		Email:        b.Email,
		PasswordHash: string(hash),
		CashBalance:  b.CashBalance,
		CreatedAt:    b.Created,
	}
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(user.ID).
//	    WithSymbol("AAPL").
//	    WithShares(10).
//	    Build(t, db)
type HoldingBuilder struct {
	UserID  string
	Symbol  string
	Shares  int64
	AvgCost decimal.Decimal
}

// NewHolding creates a HoldingBuilder for userID with sensible defaults.
func NewHolding(userID string) *HoldingBuilder {
	return &HoldingBuilder{
		UserID:  userID,
		Symbol:  MakeSymbol("TST"),
		Shares:  10,
		AvgCost: decimal.NewFromInt(100),
	}
}

// WithSymbol sets the symbol.
func (b *HoldingBuilder) WithSymbol(symbol string) *HoldingBuilder {
	b.Symbol = symbol
	return b
}

// WithShares sets the share count.
func (b *HoldingBuilder) WithShares(shares int64) *HoldingBuilder {
	b.Shares = shares
	return b
}

// WithAvgCost sets the average cost per share.
func (b *HoldingBuilder) WithAvgCost(cost decimal.Decimal) *HoldingBuilder {
	b.AvgCost = cost
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO holding (user_id, symbol, shares, avg_cost) VALUES (?, ?, ?, ?)`,
		b.UserID, b.Symbol, b.Shares, b.AvgCost.String(),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{Symbol: b.Symbol, Shares: b.Shares, AvgCost: b.AvgCost}
}

// TransactionBuilder provides a fluent interface for creating test transactions.
// It only writes the log entry; cash and holdings are left untouched.
//
// Example usage:
//
//	tx := testutil.NewTransaction(user.ID).
//	    WithSymbol("AAPL").
//	    Sell(5).
//	    At(time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type TransactionBuilder struct {
	ID            string
	UserID        string
	Symbol        string
	Shares        int64
	PricePerShare decimal.Decimal
	Type          model.TransactionType
	Timestamp     time.Time
}

// NewTransaction creates a BUY TransactionBuilder for userID with sensible defaults.
func NewTransaction(userID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:            MakeID(),
		UserID:        userID,
		Symbol:        "TEST",
		Shares:        10,
		PricePerShare: decimal.NewFromInt(100),
		Type:          model.TransactionTypeBuy,
		Timestamp:     time.Now().UTC(),
	}
}

// WithSymbol sets the symbol.
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = symbol
	return b
}

// WithPrice sets the price per share.
func (b *TransactionBuilder) WithPrice(price decimal.Decimal) *TransactionBuilder {
	b.PricePerShare = price
	return b
}

// Buy makes the transaction a BUY of shares.
func (b *TransactionBuilder) Buy(shares int64) *TransactionBuilder {
	b.Type = model.TransactionTypeBuy
	b.Shares = shares
	return b
}

// Sell makes the transaction a SELL of shares.
func (b *TransactionBuilder) Sell(shares int64) *TransactionBuilder {
	b.Type = model.TransactionTypeSell
	b.Shares = shares
	return b
}

// At sets the execution timestamp.
func (b *TransactionBuilder) At(ts time.Time) *TransactionBuilder {
	b.Timestamp = ts.UTC()
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, user_id, symbol, shares, price_per_share, type, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Symbol, b.Shares, b.PricePerShare.String(), string(b.Type), b.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:            b.ID,
		UserID:        b.UserID,
		Symbol:        b.Symbol,
		Shares:        b.Shares,
		PricePerShare: b.PricePerShare,
		Type:          b.Type,
		Timestamp:     b.Timestamp,
	}
}

// Convenience functions

// CreateUser creates a user with default values.
//
// Example usage:
//
//	user := testutil.CreateUser(t, db)
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// CreateCloses stores one close per entry in closes, keyed by YYYY-MM-DD.
//
// Example usage:
//
//	testutil.CreateCloses(t, db, "AAPL", map[string]float64{
//	    "2024-01-02": 185.64,
//	    "2024-01-03": 184.25,
//	})
func CreateCloses(t *testing.T, db *sql.DB, symbol string, closes map[string]float64) {
	t.Helper()

	for date, price := range closes {
		_, err := db.Exec(
			`INSERT INTO close_price (symbol, date, close, fetched_at) VALUES (?, ?, ?, ?)`,
			symbol, date, decimal.NewFromFloat(price).String(), time.Now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			t.Fatalf("Failed to create test close price: %v", err)
		}
	}
}
