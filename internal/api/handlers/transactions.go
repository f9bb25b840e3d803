package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
)

// TransactionHandler handles HTTP requests for trades and the transaction log.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the tradeService.
type TransactionHandler struct {
	tradeService *service.TradeService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(tradeService *service.TradeService) *TransactionHandler {
	return &TransactionHandler{
		tradeService: tradeService,
	}
}

// Trade handles POST requests to execute a buy or sell order at the given price.
//
// Endpoint: POST /api/trade
// Request Body: TradeRequest (symbol, shares, price, type)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails, cash is short, or shares are short
// Error: 500 Internal Server Error if the trade cannot be recorded
func (h *TransactionHandler) Trade(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.tradeService.ExecuteTrade(r.Context(), userID, model.TradeRequest{
		Symbol: req.Symbol,
		Shares: req.Shares,
		Price:  req.Price,
		Type:   model.TransactionType(strings.ToUpper(req.Type)),
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			response.RespondError(w, http.StatusBadRequest, "Not enough cash to make this purchase.", err.Error())
		case errors.Is(err, apperrors.ErrInsufficientShares):
			response.RespondError(w, http.StatusBadRequest, "Not enough shares to sell.", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExecuteTrade.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// AllTransactions handles GET requests to retrieve the user's transaction log in execution order.
//
// Endpoint: GET /api/transactions
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	transactions, err := h.tradeService.GetTransactions(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
// Transactions of other users are reported as not found.
//
// Endpoint: GET /api/transactions/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.tradeService.GetTransaction(r.Context(), userID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}
