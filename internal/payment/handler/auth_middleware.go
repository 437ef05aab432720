package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/merchantdesk/backoffice/pkg/auth"
	"github.com/merchantdesk/backoffice/pkg/logger"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	CompanyIDKey contextKey = "company_id"
	UsernameKey  contextKey = "username"
	RoleKey      contextKey = "role"
)

// Role names carried in the JWT, as issued by the company service.
const (
	roleOwner   = "owner"
	roleAdmin   = "admin"
	roleFinance = "finance"
)

// AuthMiddleware validates the bearer JWT and stores the caller identity in
// the request context.
func AuthMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Logger.Warn().Msg("Missing authorization header")
				respondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Logger.Warn().Msg("Invalid authorization header format")
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := auth.ValidateToken(parts[1])
			if err != nil {
				logger.Logger.Warn().Err(err).Msg("Invalid token")
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, CompanyIDKey, claims.CompanyID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)

			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRoles guards privileged operations. Used after AuthMiddleware.
func RequireRoles(allowedRoles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(RoleKey).(string)
			for _, allowed := range allowedRoles {
				if role == allowed {
					next(w, r)
					return
				}
			}

			logger.Logger.Warn().
				Str("role", role).
				Strs("allowed_roles", allowedRoles).
				Str("path", r.URL.Path).
				Msg("Insufficient role for operation")
			respondError(w, http.StatusForbidden, "Insufficient permissions")
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{Success: false, Error: message})
}
