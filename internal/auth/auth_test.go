package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivee/bidprice-service/internal/auth"
)

func TestInMemoryStoreAcceptsCorrectPassword(t *testing.T) {
	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	assert.True(t, store.Authenticate("demo@example.com", "demo"))
}

func TestInMemoryStoreRejectsWrongPassword(t *testing.T) {
	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	assert.False(t, store.Authenticate("demo@example.com", "wrong"))
	assert.False(t, store.Authenticate("someone@else.com", "demo"))
}

func TestInMemoryStoreNormalisesUsernameCaseAndWhitespace(t *testing.T) {
	store, err := auth.NewInMemoryStore("Demo@Example.com", "demo", 4)
	require.NoError(t, err)
	assert.True(t, store.Authenticate("  DEMO@EXAMPLE.COM  ", "demo"))
	assert.True(t, store.Exists("demo@example.com"))
	assert.True(t, store.Exists(" Demo@Example.com "))
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", 60)
	now := time.Now()

	token, err := issuer.Issue("demo@example.com", now)
	require.NoError(t, err)

	subject, err := issuer.Verify(token, store)
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", subject)
}

func TestTokenIssuerNormalisesSubjectOnIssueAndVerify(t *testing.T) {
	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", 60)

	token, err := issuer.Issue("  Demo@Example.com  ", time.Now())
	require.NoError(t, err)

	subject, err := issuer.Verify(token, store)
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", subject)
}

func TestTokenIssuerRejectsSubjectNoLongerInStore(t *testing.T) {
	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", 60)

	token, err := issuer.Issue("someone-else@example.com", time.Now())
	require.NoError(t, err)

	_, err = issuer.Verify(token, store)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsExpiredToken(t *testing.T) {
	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", -1)
	token, err := issuer.Issue("demo@example.com", time.Now())
	require.NoError(t, err)

	_, err = issuer.Verify(token, store)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsWrongSecret(t *testing.T) {
	store, err := auth.NewInMemoryStore("demo@example.com", "demo", 4)
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", 60)
	other := auth.NewTokenIssuer("other-secret", 60)

	token, err := issuer.Issue("demo@example.com", time.Now())
	require.NoError(t, err)

	_, err = other.Verify(token, store)
	assert.Error(t, err)
}
