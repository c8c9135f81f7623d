// Package tokens tracks the refresh tokens that are still allowed to mint access tokens.
package tokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ExpiryGrace is how long an entry outlives its token, so an expired token still
// reads as registered and fails on its expiry rather than as unknown.
const ExpiryGrace = 24 * time.Hour

// retention is how long a token with lifetime ttl stays registered.
func retention(ttl time.Duration) time.Duration {
	return max(ttl, 0) + ExpiryGrace
}

type Registry interface {
	// Add registers token for its lifetime ttl plus ExpiryGrace.
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
	// Revoke is idempotent: revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}

// fingerprint keeps raw tokens out of storage keys.
func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
