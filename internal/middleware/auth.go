package middleware

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/minishop/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UsernameKey is the context key for the authenticated principal.
	UsernameKey contextKey = "username"
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey contextKey = "user_id"
	// DisplayNameKey is the context key for the name shown to the user.
	DisplayNameKey contextKey = "display_name"

	// SessionCookie carries the session token for browser clients.
	SessionCookie = "shop_session"
)

// GetUsername extracts the principal from the context.
// Returns empty string if not found.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(UsernameKey).(string)
	return username
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetDisplayName returns the principal's display name, falling back to the
// username for tokens that carry none.
func GetDisplayName(ctx context.Context) string {
	if name, _ := ctx.Value(DisplayNameKey).(string); name != "" {
		return name
	}
	return GetUsername(ctx)
}

// WithPrincipal stores the principal in ctx.
func WithPrincipal(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	ctx = context.WithValue(ctx, DisplayNameKey, claims.Name)
	return context.WithValue(ctx, UserIDKey, claims.UserID)
}

// RequireAuth returns a Connect interceptor that validates bearer tokens.
// It extracts the token from the Authorization header, validates it, and adds
// the principal to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			tokenString, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithPrincipal(ctx, claims), req)
		}
	}
}

// OptionalAuth validates a bearer token if present, but lets anonymous
// requests through.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, err := bearerToken(req.Header().Get("Authorization")); err == nil {
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithPrincipal(ctx, claims)
				}
			}
			return next(ctx, req)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireSession guards browser routes. Requests without a valid session
// cookie are redirected to loginPath.
func RequireSession(jwtManager *auth.JWTManager, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := sessionClaims(jwtManager, r)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims)))
		})
	}
}

// OptionalSession attaches the principal when a valid session cookie is
// present.
func OptionalSession(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := sessionClaims(jwtManager, r); ok {
				r = r.WithContext(WithPrincipal(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionClaims(jwtManager *auth.JWTManager, r *http.Request) (*auth.Claims, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims, err := jwtManager.Validate(cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}
