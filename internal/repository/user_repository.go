package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a new UserRepository scoped to the provided transaction.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *UserRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertUser stores a new user. Returns apperrors.ErrDuplicateEntry if the email is already registered.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO user (id, full_name, email, password_hash, cash_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		u.ID,
		u.FullName,
		u.Email,
		u.PasswordHash,
		u.CashBalance.String(),
		formatTimestamp(u.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by primary key.
// Returns apperrors.ErrUserNotFound if no user matches.
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	return r.getUser(ctx, "id", userID)
}

// GetUserByEmail retrieves a user by their login email.
// Returns apperrors.ErrUserNotFound if no user matches.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *UserRepository) getUser(ctx context.Context, column, value string) (model.User, error) {
	//nolint:gosec // G202: column is one of two hardcoded names
	query := `
		SELECT id, full_name, email, password_hash, cash_balance, created_at
		FROM user
		WHERE ` + column + ` = ?
	`

	var u model.User
	var createdAtStr string
	err := r.getQuerier().QueryRowContext(ctx, query, value).Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.CashBalance,
		&createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, apperrors.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to query user table: %w", err)
	}

	u.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return u, nil
}

// UpdateCashBalance overwrites the user's cash balance.
// Returns apperrors.ErrUserNotFound if the user does not exist.
func (r *UserRepository) UpdateCashBalance(ctx context.Context, userID string, cash decimal.Decimal) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE user SET cash_balance = ? WHERE id = ?`,
		cash.String(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
