package credentials

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockerhub/registry/pkg/registry"
)

func testUser() *registry.User {
	return &registry.User{
		ID:                 7,
		Username:           "alice",
		Role:               registry.RoleAdmin,
		MustChangePassword: true,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, registry.RoleAdmin, claims.Role)
	assert.True(t, claims.MustChangePassword)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenCodec("secret-a", time.Hour)
	verifier := NewTokenCodec("secret-b", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrInvalidToken))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute)

	token, err := codec.Issue(testUser())
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrInvalidToken))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(token)
		assert.True(t, errors.Is(err, registry.ErrInvalidToken), "token %q", token)
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hasher := NewPasswordHasher(4) // low cost to keep the test fast

	digest, err := hasher.Hash("Password1234")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1234", digest)

	assert.True(t, hasher.Check("Password1234", digest))
	assert.False(t, hasher.Check("wrong", digest))
}

func TestPasswordHashIsSalted(t *testing.T) {
	hasher := NewPasswordHasher(4)

	first, err := hasher.Hash("Password1234")
	require.NoError(t, err)
	second, err := hasher.Hash("Password1234")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("Password1234", first))
	assert.True(t, hasher.Check("Password1234", second))
}

func TestPasswordHasherCostFallback(t *testing.T) {
	hasher := NewPasswordHasher(1000)
	digest, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.True(t, hasher.Check("pw", digest))
}
