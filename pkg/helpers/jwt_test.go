package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestGenerateToken_UsesUserTTL(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", 7*24*time.Hour, 8*time.Hour, "test")
	m.now = fixedClock(now)

	tok, exp, err := m.GenerateToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour), exp)

	claims, err := m.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.False(t, claims.IsAdmin())
}

func TestGenerateAdminToken_CarriesAdminRole(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", 7*24*time.Hour, 8*time.Hour, "test")
	m.now = fixedClock(now)

	tok, exp, err := m.GenerateAdminToken("admin-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(8*time.Hour), exp)

	claims, err := m.ParseToken(tok)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestParseToken_RejectsExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", time.Hour, time.Hour, "test")
	m.now = fixedClock(now)

	tok, _, err := m.GenerateToken("user-1")
	require.NoError(t, err)

	m.now = fixedClock(now.Add(2 * time.Hour))
	_, err = m.ParseToken(tok)
	assert.Error(t, err)
}

func TestParseToken_RejectsOtherSecretAndTampering(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour, "test")
	other := NewJWTManager("another", time.Hour, time.Hour, "test")

	tok, _, err := other.GenerateToken("user-1")
	require.NoError(t, err)
	_, err = m.ParseToken(tok)
	assert.Error(t, err)

	tok, _, err = m.GenerateToken("user-1")
	require.NoError(t, err)
	_, err = m.ParseToken(tok[:len(tok)-2] + "xx")
	assert.Error(t, err)

	_, err = m.ParseToken("not-a-token")
	assert.Error(t, err)
}
