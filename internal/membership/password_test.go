// internal/membership/password_test.go
package membership

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialVerify(t *testing.T) {
	memberID := uuid.New()

	credential, err := NewCredential(memberID, "SecurePass123!")
	require.NoError(t, err)
	require.Equal(t, memberID, credential.MemberID)

	match, err := credential.Verify("SecurePass123!")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = credential.Verify("wrong-password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCredentialSaltsDiffer(t *testing.T) {
	a, err := NewCredential(uuid.New(), "same-password")
	require.NoError(t, err)
	b, err := NewCredential(uuid.New(), "same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
}
