package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"goTwitter/domain"
)

// TokenLifetime is the absolute expiry of issued tokens.
const TokenLifetime = 24 * time.Hour

// Claims is the identity payload embedded in issued tokens.
type Claims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited identity tokens.
// Verification is stateless, nothing is stored per token.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenService returns a TokenService signing with the given secret and
// HMAC algorithm ("HS256", "HS384" or "HS512"). An unknown algorithm falls
// back to HS256.
func NewTokenService(secret, algorithm string) *TokenService {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		method = jwt.SigningMethodHS256
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
	}
}

// Issue produces a signed token embedding the user's id and username,
// expiring TokenLifetime from now.
func (ts *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:       user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}
	return jwt.NewWithClaims(ts.method, claims).SignedString(ts.secret)
}

// Verify checks a token's signature and expiry. It returns the decoded claims
// and true on success, or nil and false on any failure (malformed, expired,
// bad signature, wrong algorithm). It never returns an error to the caller.
func (ts *TokenService) Verify(tokenString string) (*Claims, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Pin the configured method so alg-substitution tokens are rejected.
		if t.Method.Alg() != ts.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return ts.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, false
	}
	return claims, true
}
