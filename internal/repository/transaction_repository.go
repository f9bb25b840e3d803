package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// Transactions are append-only: there is no update or delete.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertTransaction appends a transaction to its user's log.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, user_id, symbol, shares, price_per_share, type, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Symbol,
		t.Shares,
		t.PricePerShare.String(),
		string(t.Type),
		formatTimestamp(t.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransactionsByUser returns the user's full transaction log in the order it was written.
// Returns an empty slice if the user has never traded.
func (r *TransactionRepository) GetTransactionsByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, shares, price_per_share, type, timestamp
		FROM "transaction"
		WHERE user_id = ?
		ORDER BY rowid ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction owned by userID.
// Returns apperrors.ErrTransactionNotFound if it does not exist or belongs to another user.
func (r *TransactionRepository) GetTransaction(ctx context.Context, userID, transactionID string) (model.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, shares, price_per_share, type, timestamp
		FROM "transaction"
		WHERE id = ? AND user_id = ?
	`

	t, err := scanTransaction(r.getQuerier().QueryRowContext(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, apperrors.ErrTransactionNotFound
		}
		return model.Transaction{}, err
	}

	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var typeStr, timestampStr string

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Symbol,
		&t.Shares,
		&t.PricePerShare,
		&typeStr,
		&timestampStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	t.Type = model.TransactionType(typeStr)
	t.Timestamp, err = ParseTime(timestampStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	return t, nil
}
