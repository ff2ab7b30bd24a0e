package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenPrefix marks botlint API tokens.
	TokenPrefix = "blt_sk_" // #nosec G101 -- prefix pattern, not a credential

	// TokenLength is the random part of a token in bytes, hex encoded.
	TokenLength = 32

	bcryptCost = 12
)

// GenerateToken returns a new random API token.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return TokenPrefix + hex.EncodeToString(buf), nil
}

// HashToken creates a bcrypt hash of the token's secret part.
func HashToken(token string) (string, error) {
	secret := strings.TrimPrefix(token, TokenPrefix)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}

// VerifyToken checks token against hash.
func VerifyToken(token, hash string) bool {
	secret := strings.TrimPrefix(token, TokenPrefix)
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
