package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
// A row exists only while the user owns a positive number of shares.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetHolding returns the user's holding in symbol. The boolean is false when
// the user owns no shares of it.
func (r *HoldingRepository) GetHolding(ctx context.Context, userID, symbol string) (model.Holding, bool, error) {
	query := `
		SELECT symbol, shares, avg_cost
		FROM holding
		WHERE user_id = ? AND symbol = ?
	`

	var h model.Holding
	err := r.getQuerier().QueryRowContext(ctx, query, userID, symbol).Scan(&h.Symbol, &h.Shares, &h.AvgCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Holding{}, false, nil
		}
		return model.Holding{}, false, fmt.Errorf("failed to query holding table: %w", err)
	}

	return h, true, nil
}

// GetHoldings returns all holdings of a user ordered by symbol.
// Returns an empty slice if the user holds nothing.
func (r *HoldingRepository) GetHoldings(ctx context.Context, userID string) ([]model.Holding, error) {
	query := `
		SELECT symbol, shares, avg_cost
		FROM holding
		WHERE user_id = ?
		ORDER BY symbol ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares, &h.AvgCost); err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// UpsertHolding inserts the holding or replaces its shares and average cost.
func (r *HoldingRepository) UpsertHolding(ctx context.Context, userID string, h model.Holding) error {
	query := `
		INSERT INTO holding (user_id, symbol, shares, avg_cost)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, symbol) DO UPDATE SET
			shares = excluded.shares,
			avg_cost = excluded.avg_cost
	`

	if _, err := r.getQuerier().ExecContext(ctx, query, userID, h.Symbol, h.Shares, h.AvgCost.String()); err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// DeleteHolding removes the user's holding in symbol. Deleting a missing holding is not an error.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, userID, symbol string) error {
	if _, err := r.getQuerier().ExecContext(ctx,
		`DELETE FROM holding WHERE user_id = ? AND symbol = ?`,
		userID,
		symbol,
	); err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// GetHeldSymbols returns every distinct symbol currently held by any user, sorted.
// Used by the scheduled price refresh.
func (r *HoldingRepository) GetHeldSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT DISTINCT symbol FROM holding ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query held symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan held symbols: %w", err)
		}
		symbols = append(symbols, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating held symbols: %w", err)
	}

	return symbols, nil
}
