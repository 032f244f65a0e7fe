package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret-123", time.Hour)

	token, claims, err := svc.GenerateToken("user_1", "customer")
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", parsed.UserID)
	assert.Equal(t, "customer", parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestValidate_WrongSecretOrExpired(t *testing.T) {
	token, _, err := New("secret-a", time.Hour).GenerateToken("user_1", "cleaner")
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := New("secret-a", -time.Minute).GenerateToken("user_1", "cleaner")
	require.NoError(t, err)
	_, err = New("secret-a", time.Hour).ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = New("secret-a", time.Hour).ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
