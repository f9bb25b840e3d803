package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
)

// PortfolioHandler handles HTTP requests for the authenticated user's portfolio.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// HistoryPointResponse is one day of the portfolio value chart.
type HistoryPointResponse struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Portfolio handles GET requests for the current cash balance and holdings.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with Portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// PortfolioHistory handles GET requests for the reconstructed daily portfolio value.
// An account without transactions returns an empty array.
//
// Endpoint: GET /api/portfolio/history
// Response: 200 OK with array of HistoryPointResponse, ascending by date
// Error: 500 Internal Server Error if the user or transaction log cannot be loaded
func (h *PortfolioHandler) PortfolioHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	points, err := h.portfolioService.GetPortfolioHistory(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolioHistory.Error(), err.Error())
		return
	}

	history := make([]HistoryPointResponse, 0, len(points))
	for _, p := range points {
		history = append(history, HistoryPointResponse{
			Date:  p.DateKey(),
			Value: p.TotalValue.InexactFloat64(),
		})
	}

	response.RespondJSON(w, http.StatusOK, history)
}
