package middleware

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// InMemoryKeyCost is the bcrypt cost for a plain API_KEY hashed at startup.
// The hash never leaves the process, so it only needs a constant-time
// compare; a low cost keeps each DELETE cheap for the caller to trigger.
const InMemoryKeyCost = bcrypt.MinCost

// maxKeyLen is the longest input bcrypt hashes; later bytes are ignored.
const maxKeyLen = 72

// APIKey verifies the shared secret that authorizes destructive calls.
// Only a bcrypt hash of the secret is kept in memory.
type APIKey struct {
	hash []byte
}

// NewAPIKey hashes a plain secret with the given bcrypt cost.
func NewAPIKey(secret string, cost int) (*APIKey, error) {
	if secret == "" {
		return nil, errors.New("api key must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, fmt.Errorf("hash api key: %w", err)
	}
	return &APIKey{hash: hash}, nil
}

// NewAPIKeyFromHash uses a bcrypt hash produced elsewhere (API_KEY_HASH)
func NewAPIKeyFromHash(hash string) (*APIKey, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid api key hash: %w", err)
	}
	return &APIKey{hash: []byte(hash)}, nil
}

// Verify reports whether presented matches the configured secret.
// Keys longer than bcrypt's input limit never match, so a configured
// 72-byte key followed by extra bytes is refused.
func (k *APIKey) Verify(presented string) bool {
	if presented == "" || len(presented) > maxKeyLen {
		return false
	}
	return bcrypt.CompareHashAndPassword(k.hash, []byte(presented)) == nil
}
