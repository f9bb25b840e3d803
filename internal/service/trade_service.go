package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
)

// TradeService executes orders against a user's cash balance and holdings and
// appends them to the transaction log.
type TradeService struct {
	db              *sql.DB
	userRepo        *repository.UserRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	now             func() time.Time
}

// NewTradeService creates a new TradeService with the provided repository dependencies.
func NewTradeService(
	db *sql.DB,
	userRepo *repository.UserRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
) *TradeService {
	return &TradeService{
		db:              db,
		userRepo:        userRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// ExecuteTrade applies a BUY or SELL for userID and returns the recorded transaction.
//
// BUY requires cash >= shares*price and updates the holding's average cost as a
// weighted average. SELL requires at least the requested shares; a holding sold down
// to zero is removed. The cash update, holding change and log append commit together.
//
// Returns apperrors.ErrInsufficientFunds or apperrors.ErrInsufficientShares when the
// order cannot be filled.
func (s *TradeService) ExecuteTrade(ctx context.Context, userID string, req model.TradeRequest) (*model.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	userRepo := s.userRepo.WithTx(tx)
	holdingRepo := s.holdingRepo.WithTx(tx)

	user, err := userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	holding, held, err := holdingRepo.GetHolding(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}

	amount := req.Price.Mul(decimal.NewFromInt(req.Shares))
	cash := user.CashBalance

	switch req.Type {
	case model.TransactionTypeBuy:
		if cash.LessThan(amount) {
			return nil, apperrors.ErrInsufficientFunds
		}
		cash = cash.Sub(amount)

		next := model.Holding{Symbol: symbol, Shares: req.Shares, AvgCost: req.Price}
		if held {
			next.Shares = holding.Shares + req.Shares
			next.AvgCost = holding.AvgCost.Mul(decimal.NewFromInt(holding.Shares)).
				Add(amount).
				Div(decimal.NewFromInt(next.Shares))
		}
		if err := holdingRepo.UpsertHolding(ctx, userID, next); err != nil {
			return nil, err
		}

	case model.TransactionTypeSell:
		if !held || holding.Shares < req.Shares {
			return nil, apperrors.ErrInsufficientShares
		}
		cash = cash.Add(amount)

		remaining := holding.Shares - req.Shares
		if remaining == 0 {
			err = holdingRepo.DeleteHolding(ctx, userID, symbol)
		} else {
			holding.Shares = remaining
			err = holdingRepo.UpsertHolding(ctx, userID, holding)
		}
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown transaction type %q", req.Type)
	}

	if err := userRepo.UpdateCashBalance(ctx, userID, cash); err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		ID:            uuid.New().String(),
		UserID:        userID,
		Symbol:        symbol,
		Shares:        req.Shares,
		PricePerShare: req.Price,
		Type:          req.Type,
		Timestamp:     s.now().UTC(),
	}
	if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, transaction); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	return transaction, nil
}

// GetTransactions returns the user's transaction log in the order it was written.
func (s *TradeService) GetTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactionsByUser(ctx, userID)
}

// GetTransaction returns one of the user's transactions.
// Returns apperrors.ErrTransactionNotFound if it does not exist or belongs to someone else.
func (s *TradeService) GetTransaction(ctx context.Context, userID, transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, userID, transactionID)
}
