package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Varun5711/campusapi/internal/auth"
)

func newTestJWT() *auth.JWTManager {
	return auth.NewJWTManager("middleware-secret", time.Hour, 24*time.Hour)
}

func identityHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"userId": claims.UserID, "email": claims.Email})
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body["error"]
}

func TestRequireAuth_Rejections(t *testing.T) {
	jwtManager := newTestJWT()
	refresh, _, err := jwtManager.GenerateToken(1, "a@example.com", auth.RefreshToken)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"missing header", "", "Authorization header missing"},
		{"no bearer prefix", "Token abc", "Invalid authorization format. Use: Bearer <token>"},
		{"bearer only", "Bearer", "Invalid authorization format. Use: Bearer <token>"},
		{"lowercase bearer", "bearer abc", "Invalid authorization format. Use: Bearer <token>"},
		{"too many parts", "Bearer a b", "Invalid authorization format. Use: Bearer <token>"},
		{"garbage token", "Bearer not.a.jwt", "Invalid or expired token"},
		{"refresh token used as access", "Bearer " + refresh, "Invalid or expired token"},
	}

	m := NewAuthMiddleware(jwtManager)
	handler := m.RequireAuth(identityHandler(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
			if msg := decodeError(t, rec); msg != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestRequireAuth_AttachesClaims(t *testing.T) {
	jwtManager := newTestJWT()
	token, _, err := jwtManager.GenerateToken(42, "test@example.com", auth.AccessToken)
	if err != nil {
		t.Fatal(err)
	}

	handler := NewAuthMiddleware(jwtManager).RequireAuth(identityHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		UserID int64  `json:"userId"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.UserID != 42 || body.Email != "test@example.com" {
		t.Errorf("unexpected identity: %+v", body)
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := newTestJWT()
	token, _, err := jwtManager.GenerateToken(7, "opt@example.com", auth.AccessToken)
	if err != nil {
		t.Fatal(err)
	}

	handler := NewAuthMiddleware(jwtManager).OptionalAuth(identityHandler(t))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"anonymous", "", http.StatusNoContent},
		{"malformed header", "Basic xyz", http.StatusNoContent},
		{"invalid token", "Bearer nope", http.StatusNoContent},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestGetUserID_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetUserID(req.Context()); id != 0 {
		t.Errorf("expected 0, got %d", id)
	}
}
