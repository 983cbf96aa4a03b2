package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenSecret = []byte("test-secret")

func TestTokenRoundTripRegistered(t *testing.T) {
	token, err := GenerateRegisteredToken(tokenSecret, "507f1f77bcf86cd799439011", time.Hour)
	require.NoError(t, err)

	p, err := ParseToken(tokenSecret, token)
	require.NoError(t, err)
	assert.False(t, p.IsGuest())
	assert.Equal(t, "507f1f77bcf86cd799439011", p.ID)
}

func TestTokenRoundTripGuest(t *testing.T) {
	token, err := GenerateGuestToken(tokenSecret, "temp_abc", time.Hour)
	require.NoError(t, err)

	p, err := ParseToken(tokenSecret, token)
	require.NoError(t, err)
	assert.True(t, p.IsGuest())
	assert.Equal(t, "temp_abc", p.TempID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateRegisteredToken(tokenSecret, "id", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateGuestToken(tokenSecret, "temp_abc", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tokenSecret, token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken(tokenSecret, "not.a.token")
	assert.Error(t, err)
}
