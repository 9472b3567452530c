package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	secretKey := "test-secret-key-for-testing"
	jwtManager := NewJWTManager(secretKey, time.Hour)

	t.Run("GenerateToken creates valid token", func(t *testing.T) {
		token, err := jwtManager.GenerateToken("user-1", "duane")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("ValidateToken validates correct token", func(t *testing.T) {
		token, err := jwtManager.GenerateToken("user-2", "anotheruser")
		require.NoError(t, err)

		claims, err := jwtManager.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-2", claims.UserID)
		assert.Equal(t, "anotheruser", claims.Username)
		assert.Equal(t, "bloglist", claims.Issuer)
	})

	t.Run("ValidateToken rejects invalid token", func(t *testing.T) {
		_, err := jwtManager.ValidateToken("invalid.token.here")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ValidateToken rejects expired token", func(t *testing.T) {
		expired := NewJWTManager(secretKey, -time.Minute)

		token, err := expired.GenerateToken("user-1", "duane")
		require.NoError(t, err)

		_, err = expired.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("ValidateToken rejects token signed with another key", func(t *testing.T) {
		other := NewJWTManager("different-secret", time.Hour)
		token, err := other.GenerateToken("user-1", "duane")
		require.NoError(t, err)

		_, err = jwtManager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("yanited")
	require.NoError(t, err)
	assert.NotEqual(t, "yanited", hash)

	assert.NoError(t, h.Verify(hash, "yanited"))
	assert.ErrorIs(t, h.Verify(hash, "wrongpassword"), ErrPasswordMismatch)
}

func TestPasswordHasherClampsCost(t *testing.T) {
	assert.Equal(t, 10, NewPasswordHasher(0).cost)
	assert.Equal(t, 10, NewPasswordHasher(99).cost)
	assert.Equal(t, 4, NewPasswordHasher(4).cost)
}
