package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/raghavk/vidtube/internal/api/respond"
	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/service"
)

type contextKey string

const userKey contextKey = "user"

var errUnauthorized = domain.Unauthorized("invalid token")

// Auth authenticates a request from its access token alone: cookie first,
// then Authorization header. It loads the account so deleted accounts are
// rejected even while their tokens are unexpired. Every failure, including
// internal ones, is normalized to the same 401.
//
// Deliberately independent of the stored refresh token: logging out does not
// invalidate already-issued access tokens.
func Auth(authService *service.AuthService, tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(r, authService, tokens)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] %v", err)
				respond.Error(w, errUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// OptionalAuth attaches the account when a valid access token is present and
// passes the request through untouched otherwise.
func OptionalAuth(authService *service.AuthService, tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := authenticate(r, authService, tokens); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, authService *service.AuthService, tokens *service.TokenService) (*domain.User, error) {
	token := ExtractAccessToken(r)
	if token == "" {
		return nil, domain.Unauthorized("access token is required")
	}

	userID, err := tokens.Verify(token, service.TokenKindAccess)
	if err != nil {
		return nil, err
	}

	user, err := authService.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, errUnauthorized
	}
	return user, nil
}

// ExtractAccessToken reads the access token from the accessToken cookie,
// falling back to a bearer Authorization header. Cookie wins when both are
// present.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// GetUser returns the authenticated account attached by Auth or OptionalAuth.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}
