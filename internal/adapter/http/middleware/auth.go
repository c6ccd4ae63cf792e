package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/webcarros/backend/internal/user/usecase"
)

// ContextKey is a private key type to avoid context collisions.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserNameCtxKey = ContextKey("user_name")
)

// SessionChecker reports whether a token is still the user's active
// session; Logout revokes the session before the token expires.
type SessionChecker interface {
	ValidateSession(ctx context.Context, userID, token string) (bool, error)
}

// JWTAuth guards the dashboard routes. Requests without a valid bearer
// token, or with a token whose session has been revoked, are redirected
// to the login flow with a 401.
func JWTAuth(jwtSecret string, sessions SessionChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				logger.Warn("missing or malformed authorization header", zap.String("path", r.URL.Path))
				unauthorized(w)
				return
			}

			claims := &usecase.Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				logger.Warn("token validation failed", zap.String("path", r.URL.Path), zap.Error(err))
				unauthorized(w)
				return
			}

			ok, err := sessions.ValidateSession(r.Context(), claims.UserID, parts[1])
			if err != nil {
				// Session store unavailable; fall back to signature-only auth.
				logger.Warn("session check failed", zap.String("user_id", claims.UserID), zap.Error(err))
			} else if !ok {
				logger.Warn("revoked session token", zap.String("user_id", claims.UserID))
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, claims.UserID)
			ctx = context.WithValue(ctx, UserNameCtxKey, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required","login":"/login"}`))
}

// UserID returns the authenticated user id set by JWTAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDCtxKey).(string)
	return id
}

// UserName returns the authenticated user's display name set by JWTAuth.
func UserName(ctx context.Context) string {
	name, _ := ctx.Value(UserNameCtxKey).(string)
	return name
}
