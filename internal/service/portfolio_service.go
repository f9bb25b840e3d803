package service

import (
	"context"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/history"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
type PortfolioService struct {
	userRepo        *repository.UserRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	reconstructor   *history.Reconstructor
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	userRepo *repository.UserRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	reconstructor *history.Reconstructor,
) *PortfolioService {
	return &PortfolioService{
		userRepo:        userRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		reconstructor:   reconstructor,
	}
}

// GetPortfolio returns the user's current cash balance, holdings and account creation time.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string) (model.Portfolio, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return model.Portfolio{}, err
	}

	holdings, err := s.holdingRepo.GetHoldings(ctx, userID)
	if err != nil {
		return model.Portfolio{}, err
	}

	return model.Portfolio{
		CashBalance: user.CashBalance,
		Holdings:    holdings,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// GetPortfolioHistory rebuilds the user's daily account value from account creation to today.
// A user without transactions gets an empty series.
func (s *PortfolioService) GetPortfolioHistory(ctx context.Context, userID string) ([]model.PortfolioHistoryPoint, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.reconstructor.Reconstruct(ctx, user.CreatedAt, transactions), nil
}
