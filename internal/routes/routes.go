package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/shahzebali977/lostandfounddevops/internal/auth"
	"github.com/shahzebali977/lostandfounddevops/internal/handlers"
	"github.com/shahzebali977/lostandfounddevops/internal/middleware"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
	"github.com/shahzebali977/lostandfounddevops/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	itemHandler *handlers.ItemHandler,
	claimHandler *handlers.ClaimHandler,
	uploadHandler *handlers.UploadHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
	revokeRepo *repositories.TokenRevocationRepository,
	revocationConfig auth.RevocationConfig,
) {
	// Public routes - no authentication required. Each credential
	// endpoint gets its own per-IP limiter bucket.
	router.With(middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())).Post("/auth/refresh", authHandler.RefreshToken)

	// Browsing listings requires no account
	router.Get("/items", itemHandler.ListItems)
	router.Get("/items/{id}", itemHandler.GetItem)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddlewareWithRevocation(tokenManager, revokeRepo, revocationConfig))

		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/users/{id}", userHandler.GetUser)
		r.Put("/users/{id}", userHandler.UpdateUser)

		// Static /items/mine coexists with the public /items/{id}; chi
		// matches static segments first
		r.Get("/items/mine", itemHandler.ListMyItems)
		r.Post("/items", itemHandler.CreateItem)
		r.Put("/items/{id}", itemHandler.UpdateItem)
		r.Delete("/items/{id}", itemHandler.DeleteItem)
		r.Patch("/items/{id}/resolve", itemHandler.ResolveItem)

		r.Post("/items/{id}/claims", claimHandler.SubmitClaim)
		r.Get("/items/{id}/claims", claimHandler.ListItemClaims)
		r.Get("/claims/mine", claimHandler.ListMyClaims)
		r.Get("/claims/pending", claimHandler.ListPendingClaims)
		r.Put("/claims/{id}", claimHandler.ResolveClaim)
		r.Delete("/claims/{id}", claimHandler.DeleteClaim)

		r.With(middleware.RateLimitByUser(middleware.DefaultUploadRateLimit())).
			Post("/uploads/images", uploadHandler.UploadImage)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(userRepo, models.RoleAdmin))
			r.Get("/users", userHandler.ListUsers)
		})
	})
}
