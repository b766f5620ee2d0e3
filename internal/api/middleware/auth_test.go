package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func protectedHandler(auth *Auth) http.Handler {
	return auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	handler := protectedHandler(NewAuth("", false))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/setups", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestAuthValidToken(t *testing.T) {
	handler := protectedHandler(NewAuth(testSecret, true))

	req := httptest.NewRequest("POST", "/api/setups", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204, body %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRejections(t *testing.T) {
	handler := protectedHandler(NewAuth(testSecret, true))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"empty token", "Bearer "},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", time.Now().Add(time.Hour))},
		{"expired token", "Bearer " + signToken(t, testSecret, time.Now().Add(-time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/setups", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
