package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 7*24*time.Hour)

	if manager == nil {
		t.Fatal("expected JWTManager to be created")
	}
	if string(manager.secretKey) != "test-secret" {
		t.Errorf("expected secretKey 'test-secret', got '%s'", manager.secretKey)
	}
	if manager.TTL(AccessToken) != time.Hour {
		t.Errorf("expected access ttl 1h, got %v", manager.TTL(AccessToken))
	}
	if manager.TTL(RefreshToken) != 7*24*time.Hour {
		t.Errorf("expected refresh ttl 168h, got %v", manager.TTL(RefreshToken))
	}
}

func TestGenerateToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, 24*time.Hour)

	token, expiresAt, err := manager.GenerateToken(42, "test@example.com", AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token == "" {
		t.Error("expected non-empty token")
	}

	expectedExpiry := time.Now().Add(time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("expiry time not within expected range")
	}
}

func TestGenerateToken_UniquePerCall(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, 24*time.Hour)

	a, _, err := manager.GenerateToken(1, "a@example.com", RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _, err := manager.GenerateToken(1, "a@example.com", RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a == b {
		t.Error("expected two tokens issued in the same second to differ")
	}
}

func TestGenerateToken_UnknownKind(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, time.Hour)

	if _, _, err := manager.GenerateToken(1, "a@example.com", TokenKind("session")); err == nil {
		t.Error("expected error for unknown token kind")
	}
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	manager := NewJWTManager("", time.Hour, time.Hour)

	if _, _, err := manager.GenerateToken(1, "a@example.com", AccessToken); err == nil {
		t.Error("expected error when signing secret is empty")
	}
}

func TestValidateToken_Valid(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, 24*time.Hour)

	token, _, err := manager.GenerateToken(42, "test@example.com", AccessToken)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.ValidateToken(token, AccessToken)
	if err != nil {
		t.Fatalf("unexpected error validating token: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected UserID 42, got %d", claims.UserID)
	}
	if claims.Email != "test@example.com" {
		t.Errorf("expected Email 'test@example.com', got '%s'", claims.Email)
	}
	if claims.ID == "" {
		t.Error("expected jti to be set")
	}
}

func TestValidateToken_ZeroLifetimeExpires(t *testing.T) {
	manager := NewJWTManager("test-secret-key", 0, 0)

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, _, err := manager.GenerateToken(7, "zero@example.com", AccessToken)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	manager.now = func() time.Time { return issued.Add(time.Second) }

	_, err = manager.ValidateToken(token, AccessToken)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret-key", -time.Hour, time.Hour)

	token, _, err := manager.GenerateToken(1, "test@example.com", AccessToken)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = manager.ValidateToken(token, AccessToken)
	if err == nil {
		t.Error("expected error for expired token")
	}
}

func TestValidateToken_WrongKind(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, time.Hour)

	refresh, _, err := manager.GenerateToken(1, "test@example.com", RefreshToken)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.ValidateToken(refresh, AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected refresh token to be rejected as access token, got %v", err)
	}
	if _, err := manager.ValidateToken(refresh, RefreshToken); err != nil {
		t.Errorf("expected refresh token to validate as refresh, got %v", err)
	}
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	manager1 := NewJWTManager("secret-key-1", time.Hour, time.Hour)
	manager2 := NewJWTManager("secret-key-2", time.Hour, time.Hour)

	token, _, err := manager1.GenerateToken(1, "test@example.com", AccessToken)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = manager2.ValidateToken(token, AccessToken)
	if err == nil {
		t.Error("expected error for token with wrong signature")
	}
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, time.Hour)

	claims := Claims{
		UserID: 1,
		Email:  "test@example.com",
		Kind:   AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret-key"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := manager.ValidateToken(token, AccessToken); err == nil {
		t.Error("expected HS512 token to be rejected")
	}
}

func TestValidateToken_ErrorHidesDetail(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, time.Hour)

	_, err := manager.ValidateToken("not-a-valid-token", AccessToken)
	if err == nil {
		t.Fatal("expected error for malformed token")
	}
	if err.Error() != "invalid or expired token" {
		t.Errorf("expected generic message, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "segment") {
		t.Errorf("parser detail leaked: %q", err.Error())
	}
}

func TestValidateToken_EmptyToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, time.Hour)

	_, err := manager.ValidateToken("", AccessToken)
	if err == nil {
		t.Error("expected error for empty token")
	}
}
