package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/02priyeshraj/GrubSpot_Backend/helper"
)

type contextKey string

const claimsKey contextKey = "claims"

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// Authentication validates the bearer token and stores its claims in the
// request context.
func Authentication(tokens *helper.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientToken := r.Header.Get("Authorization")
			if clientToken == "" {
				deny(w, http.StatusUnauthorized, "No Authorization header provided")
				return
			}

			// Token format should be "Bearer <token>"
			tokenParts := strings.Split(clientToken, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				deny(w, http.StatusUnauthorized, "Invalid Authorization format")
				return
			}

			claims, err := tokens.ValidateToken(tokenParts[1])
			if err != nil {
				deny(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets through only tokens carrying the admin claim. It must
// run after Authentication.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r)
		if !ok {
			deny(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !claims.Admin {
			deny(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext retrieves the token claims from the request context
func GetUserFromContext(r *http.Request) (*helper.SignedDetails, bool) {
	claims, ok := r.Context().Value(claimsKey).(*helper.SignedDetails)
	return claims, ok
}

// CanActFor reports whether the caller may act on behalf of userID.
func CanActFor(r *http.Request, userID string) bool {
	claims, ok := GetUserFromContext(r)
	if !ok {
		return false
	}
	return claims.Admin || claims.Uid == userID
}
