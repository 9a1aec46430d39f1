// File: utils/auth_session.go
package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const revokedTokenPrefix = "revokedToken:"

// RevokedTokenTTL matches the longest token lifetime issued by the auth
// platform; entries older than this are expired tokens anyway.
const RevokedTokenTTL = 24 * time.Hour

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RevokeToken marks a bearer token as revoked. The auth platform sharing
// this Redis writes here on logout and password change.
func RevokeToken(ctx context.Context, token string) error {
	client := GetAuthCacheClient()
	return client.Set(ctx, revokedTokenPrefix+HashToken(token), "1", RevokedTokenTTL).Err()
}

// IsTokenRevoked reports whether a bearer token has been revoked. Lookup
// failures count as revoked so a degraded auth cache fails closed.
func IsTokenRevoked(ctx context.Context, token string) bool {
	client := GetAuthCacheClient()
	n, err := client.Exists(ctx, revokedTokenPrefix+HashToken(token)).Result()
	if err != nil {
		return true
	}
	return n > 0
}
