package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalFromKey(t *testing.T) {
	p := PrincipalFromKey("temp_550e8400-e29b-41d4-a716-446655440000")
	assert.True(t, p.IsGuest())
	assert.Empty(t, p.ID)
	assert.Equal(t, "temp_550e8400-e29b-41d4-a716-446655440000", p.TempID)

	p = PrincipalFromKey("507f1f77bcf86cd799439011")
	assert.False(t, p.IsGuest())
	assert.Equal(t, "507f1f77bcf86cd799439011", p.ID)
	assert.Empty(t, p.TempID)
}

func TestStorageKeyRoundTrip(t *testing.T) {
	for _, key := range []string{"temp_abc", "507f1f77bcf86cd799439011"} {
		assert.Equal(t, key, PrincipalFromKey(key).StorageKey())
	}
}

func TestOwnsKey(t *testing.T) {
	keys := []string{"507f1f77bcf86cd799439011", "temp_abc"}

	assert.True(t, OwnsKey(keys, "temp_abc"))
	assert.True(t, OwnsKey(keys, "507f1f77bcf86cd799439011"))
	assert.False(t, OwnsKey(keys, "temp_other"))
	assert.False(t, OwnsKey(nil, "temp_abc"))
}
