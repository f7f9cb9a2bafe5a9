package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/drivee/bidprice-service/internal/apierr"
)

// Claims is the full set of claims carried on an issued token.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens against one symmetric
// secret.
type TokenIssuer struct {
	secret        []byte
	expireMinutes int
}

// NewTokenIssuer builds a TokenIssuer signing with secret, issuing tokens
// valid for expireMinutes.
func NewTokenIssuer(secret string, expireMinutes int) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expireMinutes: expireMinutes}
}

// Issue signs a token for subject (the authenticated username/email),
// normalising it the same way Verify does so the claim is stable regardless
// of how the caller capitalised or padded the original credential.
func (t *TokenIssuer) Issue(subject string, now time.Time) (string, error) {
	subject = normalizeUsername(subject)
	exp := now.Add(time.Duration(t.expireMinutes) * time.Minute)
	claims := Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apierr.Wrap(apierr.KindInternal, "failed to sign access token", err)
	}
	return signed, nil
}

// Verify parses and validates raw, normalises its subject claim, confirms
// that subject is still present in store, and returns it on success.
func (t *TokenIssuer) Verify(raw string, store UserStore) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierr.New(apierr.KindAuth, "unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apierr.New(apierr.KindAuth, "invalid or expired bearer token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", apierr.New(apierr.KindAuth, "token carries no subject claim")
	}
	subject := normalizeUsername(claims.Subject)
	if !store.Exists(subject) {
		return "", apierr.New(apierr.KindAuth, "token subject is no longer a known account")
	}
	return subject, nil
}
