package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mockerhub/registry/pkg/registry"
)

// Claims is the decoded payload of a signed token.
type Claims struct {
	UserID             int64         `json:"uid"`
	Role               registry.Role `json:"role"`
	MustChangePassword bool          `json:"must_change_password"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HMAC-signed claim sets. The secret and
// expiry are injected at startup and never mutated afterwards.
type TokenCodec struct {
	secret []byte
	expiry time.Duration
}

// NewTokenCodec creates a codec signing with the given secret. Tokens expire
// after expiry.
func NewTokenCodec(secret string, expiry time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue produces a signed token for the given user.
func (c *TokenCodec) Issue(user *registry.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:             user.ID,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature and expiry of a token and returns its
// claims. Any failure is reported as registry.ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, registry.ErrInvalidToken
	}
	return claims, nil
}
