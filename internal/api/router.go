package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/config"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System    *service.SystemService
	User      *service.UserService
	Trade     *service.TradeService
	Portfolio *service.PortfolioService
	Price     *service.PriceService
	Market    *service.MarketService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	authLimiter := custommiddleware.NewRateLimiter(cfg.Auth.RateLimitPerMinute)
	requireAuth := custommiddleware.Authenticate(svc.User)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System, svc.Price)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.With(custommiddleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey)).Post("/prices/refresh", systemHandler.RefreshPrices)
		})

		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Handler)
			authHandler := handlers.NewAuthHandler(svc.User)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
			r.Get("/portfolio", portfolioHandler.Portfolio)
			r.Get("/portfolio/history", portfolioHandler.PortfolioHistory)
			r.Get("/portfolio-history", portfolioHandler.PortfolioHistory)

			transactionHandler := handlers.NewTransactionHandler(svc.Trade)
			r.Post("/trade", transactionHandler.Trade)
			r.Get("/transactions", transactionHandler.AllTransactions)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/transactions/{uuid}", transactionHandler.GetTransaction)

			marketHandler := handlers.NewMarketHandler(svc.Market)
			r.Get("/search/{symbol}", marketHandler.Search)
			r.Post("/quotes", marketHandler.Quotes)
			r.Get("/trending", marketHandler.Trending)
		})
	})

	return r
}
