package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	priceService  *service.PriceService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService, priceService *service.PriceService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		priceService:  priceService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, version)
}

// RefreshResponse reports the outcome of a price refresh.
type RefreshResponse struct {
	Refreshed int    `json:"refreshed"`
	Error     string `json:"error,omitempty"`
}

// RefreshPrices back-fills historical closes for every held symbol. Symbols that fail
// are reported but do not undo the ones that succeeded.
//
// Endpoint: POST /api/system/prices/refresh
// Authentication: X-API-Key and X-Time-Token
// Response: 200 OK with RefreshResponse
// Error: 502 Bad Gateway with RefreshResponse if any symbol failed
func (h *SystemHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	refreshed, err := h.priceService.RefreshSymbols(r.Context())
	if err != nil {
		response.RespondJSON(w, http.StatusBadGateway, RefreshResponse{
			Refreshed: refreshed,
			Error:     err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, RefreshResponse{Refreshed: refreshed})
}
