package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// ClosePriceRepository provides data access methods for the close_price table,
// the local store of daily closing prices fetched from the market data provider.
type ClosePriceRepository struct {
	db *sql.DB
}

// NewClosePriceRepository creates a new repository instance.
func NewClosePriceRepository(db *sql.DB) *ClosePriceRepository {
	return &ClosePriceRepository{db: db}
}

// GetCloses streams every stored close of symbol in ascending date order.
//
// The callback is called once per row and may return an error to stop iteration,
// which is then returned unchanged. This keeps multi-year series out of an
// intermediate slice when the caller only needs a map.
func (r *ClosePriceRepository) GetCloses(
	ctx context.Context,
	symbol string,
	callback func(price model.ClosePrice) error,
) error {
	query := `
		SELECT symbol, date, close
		FROM close_price
		WHERE symbol = ?
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return fmt.Errorf("failed to query close_price: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.ClosePrice
		var dateStr string

		if err := rows.Scan(&p.Symbol, &dateStr, &p.Close); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		p.Date, err = ParseTime(dateStr)
		if err != nil {
			return fmt.Errorf("failed to parse date: %w", err)
		}

		if err := callback(p); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

// GetLatestDate returns the most recent date with a stored close for symbol.
// The boolean is false when nothing is stored yet.
func (r *ClosePriceRepository) GetLatestDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	var latest sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(date) FROM close_price WHERE symbol = ?`,
		symbol,
	).Scan(&latest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query latest close date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}

	date, err := ParseTime(latest.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

// UpsertCloses stores a batch of closes in one transaction. A close already stored
// for the same symbol and date is overwritten, since the provider may revise the
// most recent day.
func (r *ClosePriceRepository) UpsertCloses(ctx context.Context, prices []model.ClosePrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO close_price (symbol, date, close, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			close = excluded.close,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := formatTimestamp(time.Now())
	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, p.Symbol, p.Date.Format(model.DateLayout), p.Close.String(), fetchedAt); err != nil {
			return fmt.Errorf("failed to insert close for %s on %s: %w", p.Symbol, p.Date.Format(model.DateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit closes: %w", err)
	}
	return nil
}
