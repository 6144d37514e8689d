package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/token"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cookie names checked for a session token, in order.
var tokenCookies = []string{"token", "access_token"}

// UserFinder loads the account behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// extractToken reads the session cookie or an Authorization: Bearer header.
func extractToken(r *http.Request) string {
	for _, name := range tokenCookies {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

type authError struct {
	status  int
	message string
}

// authenticate returns a context carrying the caller, or the reason it
// could not be authenticated.
func authenticate(r *http.Request, tokens *token.Manager, store cache.Store, users UserFinder, logger *zap.Logger) (context.Context, *authError) {
	raw := extractToken(r)
	if raw == "" {
		return nil, &authError{http.StatusUnauthorized, "Missing authorization token"}
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return nil, &authError{http.StatusUnauthorized, "Token has expired"}
		}
		return nil, &authError{http.StatusUnauthorized, "Invalid token"}
	}

	revoked, err := cache.IsTokenBlacklisted(r.Context(), store, claims.ID)
	if err != nil {
		logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, &authError{http.StatusInternalServerError, "Internal server error"}
	}
	if revoked {
		return nil, &authError{http.StatusUnauthorized, "Token has been revoked"}
	}

	user, err := users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		logger.Error("Failed to load token user",
			zap.Error(err), zap.String("user_id", claims.UserID.String()))
		return nil, &authError{http.StatusInternalServerError, "Internal server error"}
	}
	if user == nil || !user.IsActive {
		logger.Warn("Token for missing or inactive user", zap.String("user_id", claims.UserID.String()))
		return nil, &authError{http.StatusUnauthorized, "Account not found or inactive"}
	}

	// role comes from the stored user so role changes apply immediately
	caller := utils.Caller{UserID: user.ID, Role: string(user.Role), TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		caller.ExpiresAt = claims.ExpiresAt.Time
	}
	return utils.WithCaller(r.Context(), caller), nil
}

// Auth rejects requests without a valid, unrevoked token of an active user.
func Auth(tokens *token.Manager, store cache.Store, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, authErr := authenticate(r, tokens, store, users, logger)
			if authErr != nil {
				utils.ResponseJSON(w, authErr.status, false, authErr.message, nil, nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens *token.Manager, store cache.Store, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if extractToken(r) == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, authErr := authenticate(r, tokens, store, users, logger)
			if authErr != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles must run after Auth.
func RequireRoles(logger *zap.Logger, roles ...entity.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[string(role)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := utils.CallerFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !allowed[caller.Role] {
				logger.Warn("Role check: access denied",
					zap.String("user_id", caller.UserID.String()),
					zap.String("role", caller.Role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "You do not have access to this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
