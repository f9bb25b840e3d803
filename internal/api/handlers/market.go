package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
)

// MarketHandler serves market data: symbol history, quotes and trending symbols.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler with the provided service dependency.
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Search handles GET requests for the daily price history of a symbol.
//
// Endpoint: GET /api/search/{symbol}
// Response: 200 OK with SymbolHistory
// Error: 400 Bad Request if the symbol is malformed
// Error: 404 Not Found if the provider has no data for the symbol
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if err := validation.ValidateSymbol(symbol); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), err.Error())
		return
	}

	history, err := h.marketService.SearchSymbol(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), symbol)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to search symbol", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// Quotes handles POST requests for the latest price of several symbols.
// Symbols the provider cannot quote are omitted from the result.
//
// Endpoint: POST /api/quotes
// Request Body: QuotesRequest (symbols)
// Response: 200 OK with an object of Quote keyed by symbol
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if the request is aborted
func (h *MarketHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.QuotesRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateQuotes(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quotes, err := h.marketService.GetQuotes(r.Context(), req.Symbols)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuotes.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}

// Trending handles GET requests for quotes of the currently trending symbols.
//
// Endpoint: GET /api/trending
// Response: 200 OK with array of Quote
// Error: 502 Bad Gateway if the trending list cannot be loaded
func (h *MarketHandler) Trending(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.marketService.GetTrending(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRetrieveTrending.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}
