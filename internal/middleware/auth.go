package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Varun5711/campusapi/internal/auth"
	"github.com/Varun5711/campusapi/internal/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

const (
	msgHeaderMissing = "Authorization header missing"
	msgBadFormat     = "Invalid authorization format. Use: Bearer <token>"
	msgInvalidToken  = "Invalid or expired token"
)

type TokenValidator interface {
	ValidateToken(token string, kind auth.TokenKind) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenValidator
	log    *logger.Logger
}

func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		log:    logger.New("auth-middleware"),
	}
}

// RequireAuth rejects the request with 401 unless it carries a valid access token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, msgHeaderMissing)
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			writeError(w, http.StatusUnauthorized, msgBadFormat)
			return
		}

		claims, err := m.tokens.ValidateToken(token, auth.AccessToken)
		if err != nil {
			m.log.Debug("Rejected token on %s %s: %v", r.Method, r.URL.Path, err)
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches identity when a valid access token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if ok {
			if claims, err := m.tokens.ValidateToken(token, auth.AccessToken); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken requires exactly "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	recordIdentity(ctx, claims.UserID)
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// GetUserID returns 0 for anonymous requests.
func GetUserID(ctx context.Context) int64 {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return 0
}
