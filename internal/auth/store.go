// Package auth implements OAuth2-password bearer authentication: a
// bcrypt-backed credential store and HS256 JWT issue/verify.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/drivee/bidprice-service/internal/apierr"
)

// UserStore authenticates a username/password pair and reports whether a
// (already-normalised) username is known. Production deployments substitute
// a different implementation; the only one shipped here is the in-memory
// single-user store seeded at startup.
type UserStore interface {
	Authenticate(username, password string) bool
	Exists(username string) bool
}

// InMemoryStore holds one bcrypt-hashed credential, matching the reference
// service's single demo account.
type InMemoryStore struct {
	username string
	hash     []byte
}

// normalizeUsername lowercases and trims a username so that "Demo@Example.com"
// and " demo@example.com " are treated as the same identity on both issue and
// verify.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NewInMemoryStore hashes password at cost and seeds a single-user store.
func NewInMemoryStore(username, password string, cost int) (*InMemoryStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindConfig, "failed to hash configured test user password", err)
	}
	return &InMemoryStore{username: normalizeUsername(username), hash: hash}, nil
}

// Authenticate reports whether username/password match the seeded account.
func (s *InMemoryStore) Authenticate(username, password string) bool {
	if normalizeUsername(username) != s.username {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
}

// Exists reports whether username (normalised) names the seeded account.
func (s *InMemoryStore) Exists(username string) bool {
	return normalizeUsername(username) == s.username
}
