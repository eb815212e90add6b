package routes

import (
	"net/http"

	controller "github.com/02priyeshraj/GrubSpot_Backend/controllers"
	"github.com/02priyeshraj/GrubSpot_Backend/helper"
	"github.com/02priyeshraj/GrubSpot_Backend/logger"
	middleware "github.com/02priyeshraj/GrubSpot_Backend/middlewares"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter wires every route with its access level. Browser clients are
// admitted from allowedOrigins; "*" admits any origin.
func NewRouter(c *controller.Controller, tokens *helper.TokenManager, log *logger.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log))

	// Public Routes (No Authentication)
	UserPublicRoutes(router, c)
	MenuPublicRoutes(router, c)

	securedRoutes := router.PathPrefix("/").Subrouter()
	securedRoutes.Use(middleware.Authentication(tokens))
	OrderProtectedRoutes(securedRoutes, c)

	adminRoutes := securedRoutes.PathPrefix("/").Subrouter()
	adminRoutes.Use(middleware.RequireAdmin)
	UserAdminRoutes(adminRoutes, c)
	MenuAdminRoutes(adminRoutes, c)
	OrderAdminRoutes(adminRoutes, c)

	// Preflight requests match no route, so CORS wraps the whole router.
	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID", "Content-Disposition"}),
	)
	return cors(router)
}
