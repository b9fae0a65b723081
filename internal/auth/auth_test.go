package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)

	assert.True(t, CheckPasswordHash("password1", hash))
	assert.False(t, CheckPasswordHash("password2", hash))
	assert.False(t, CheckPasswordHash("password1", "not-a-hash"))
}

func TestIssueAndVerifyToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := IssueToken(42, secret)
	require.NoError(t, err)

	userID, err := VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyTokenFailures(t *testing.T) {
	secret := []byte("test-secret")

	token, err := IssueToken(7, secret)
	require.NoError(t, err)

	// Wrong secret.
	_, err = VerifyToken(token, []byte("other-secret"))
	assert.Error(t, err)

	// Garbage.
	_, err = VerifyToken("not.a.token", secret)
	assert.Error(t, err)

	// Expired.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})
	signed, err := expired.SignedString(secret)
	require.NoError(t, err)
	_, err = VerifyToken(signed, secret)
	assert.Error(t, err)

	// Unexpected signing algorithm.
	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = VerifyToken(unsigned, secret)
	assert.Error(t, err)
}
