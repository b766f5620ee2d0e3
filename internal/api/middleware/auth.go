// Package middleware holds cross-cutting HTTP middleware. Request logging
// and panic recovery live with the router; this package carries the JWT
// guard for mutating routes.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// SubjectKey carries the authenticated token subject in the request context.
const SubjectKey contextKey = "auth_subject"

// Claims are the JWT claims accepted by the API. Only the registered claims
// are used; the subject identifies the caller.
type Claims struct {
	jwt.RegisteredClaims
}

// Auth validates Bearer tokens on mutating routes. When disabled it passes
// every request through, which is the default for local single-user
// deployments.
type Auth struct {
	secretKey []byte
	enabled   bool
}

// NewAuth creates the auth middleware.
func NewAuth(secretKey string, enabled bool) *Auth {
	return &Auth{
		secretKey: []byte(secretKey),
		enabled:   enabled,
	}
}

// Require wraps a handler with Bearer token validation.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authorization header required")
			return
		}

		// Bearer prefix is case-insensitive per RFC 6750
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			unauthorized(w, "Invalid authorization header format")
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secretKey, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(w, "Token expired")
				return
			}
			unauthorized(w, "Invalid token")
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			unauthorized(w, "Invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
