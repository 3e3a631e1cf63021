package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fonelab/repairshopgo/internal/utils"
)

type contextKey string

// UserContextKey carries the session claims of the authenticated user
const UserContextKey contextKey = "user"

// SessionCookie is the cookie the dashboard stores its token in
const SessionCookie = "session"

// AuthGate resolves the caller's session and guards protected routes.
// There are two outcomes: Authenticated (valid, fully verified token) and
// Anonymous (everything else, including pending-second-factor tokens).
type AuthGate struct {
	secret string
}

// NewAuthGate creates a gate validating tokens against secret
func NewAuthGate(secret string) *AuthGate {
	return &AuthGate{secret: secret}
}

// tokenFromRequest reads the bearer token from the Authorization header,
// falling back to the session cookie set for page navigation. A non-Bearer
// Authorization header (proxies, basic auth) must not mask the cookie.
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// Resolve returns the caller's claims, or nil when the request is anonymous.
// A valid token that still owes its second factor counts as anonymous.
func (g *AuthGate) Resolve(r *http.Request) jwt.MapClaims {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return nil
	}

	claims, err := utils.ValidateToken(tokenString, g.secret)
	if err != nil {
		return nil
	}
	if utils.IsPendingSecondFactor(claims) {
		return nil
	}
	return claims
}

// RequireAPI guards a data endpoint: anonymous callers get 401 JSON
func (g *AuthGate) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := g.Resolve(r)
		if claims == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "请先登录", "status": "error"})
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePage guards a dashboard page: anonymous callers are redirected to /login
func (g *AuthGate) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := g.Resolve(r)
		if claims == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserClaims extracts the session claims stored by the gate
func UserClaims(ctx context.Context) jwt.MapClaims {
	claims, _ := ctx.Value(UserContextKey).(jwt.MapClaims)
	return claims
}
