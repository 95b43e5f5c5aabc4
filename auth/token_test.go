package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goTwitter/domain"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	ts := NewTokenService("test-secret", "HS256")

	token, err := ts.Issue(&domain.User{ID: 7, Username: "ann"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, ok := ts.Verify(token)
	require.True(t, ok)
	assert.Equal(t, 7, claims.ID)
	assert.Equal(t, "ann", claims.Username)
}

func TestTokenService_WrongSecret(t *testing.T) {
	ts := NewTokenService("test-secret", "HS256")
	other := NewTokenService("other-secret", "HS256")

	token, err := ts.Issue(&domain.User{ID: 1, Username: "ann"})
	require.NoError(t, err)

	claims, ok := other.Verify(token)
	assert.False(t, ok)
	assert.Nil(t, claims)
}

func TestTokenService_TamperedToken(t *testing.T) {
	ts := NewTokenService("test-secret", "HS256")

	token, err := ts.Issue(&domain.User{ID: 1, Username: "ann"})
	require.NoError(t, err)

	// Flip a character in the signature.
	tampered := token[:len(token)-2] + "xx"
	_, ok := ts.Verify(tampered)
	assert.False(t, ok)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	ts := NewTokenService("test-secret", "HS256")

	claims := Claims{
		ID:       1,
		Username: "ann",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, ok := ts.Verify(expired)
	assert.False(t, ok)
}

func TestTokenService_AlgorithmPinned(t *testing.T) {
	hs512 := NewTokenService("test-secret", "HS512")
	hs256 := NewTokenService("test-secret", "HS256")

	token, err := hs512.Issue(&domain.User{ID: 1, Username: "ann"})
	require.NoError(t, err)

	// Same secret, different configured algorithm: rejected.
	_, ok := hs256.Verify(token)
	assert.False(t, ok)
}

func TestTokenService_UnknownAlgorithmFallsBack(t *testing.T) {
	ts := NewTokenService("test-secret", "none")

	token, err := ts.Issue(&domain.User{ID: 3, Username: "bob"})
	require.NoError(t, err)

	claims, ok := NewTokenService("test-secret", "HS256").Verify(token)
	require.True(t, ok)
	assert.Equal(t, 3, claims.ID)
}

func TestTokenService_MalformedToken(t *testing.T) {
	ts := NewTokenService("test-secret", "HS256")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, ok := ts.Verify(token)
		assert.False(t, ok, "token %q should not verify", token)
	}
}
