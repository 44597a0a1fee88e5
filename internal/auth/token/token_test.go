package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/0xronaldo/backend-zkp-lastproyect/pkg/domain-errors"
)

const testKey = "test-signing-key-at-least-32-bytes"

func TestIssueAndValidate(t *testing.T) {
	s := NewService(testKey, time.Hour)

	signed, expiresAt, err := s.Issue("ada@example.com", "did:polygonid:polygon:amoy:2qSubject", "password")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, "did:polygonid:polygon:amoy:2qSubject", claims.Identity)
	assert.Equal(t, "password", claims.AuthMethod)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateExpiredToken(t *testing.T) {
	s := NewService(testKey, -time.Minute)

	signed, _, err := s.Issue("ada@example.com", "did:sub", "password")
	require.NoError(t, err)

	_, err = s.Validate(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateWrongKey(t *testing.T) {
	signed, _, err := NewService(testKey, time.Hour).Issue("ada@example.com", "did:sub", "password")
	require.NoError(t, err)

	_, err = NewService("another-signing-key-32-bytes-long", time.Hour).Validate(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateGarbage(t *testing.T) {
	s := NewService(testKey, time.Hour)

	_, err := s.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
