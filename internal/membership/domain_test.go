// internal/membership/domain_test.go
package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/liberr"
)

func TestNewMember(t *testing.T) {
	member, err := NewMember("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	assert.True(t, member.Active)
	assert.Equal(t, "Ada Lovelace", member.Name)
}

func TestNewMemberValidation(t *testing.T) {
	_, err := NewMember("", "ada@example.com")
	require.ErrorIs(t, err, liberr.ErrValidation)

	_, err = NewMember("Ada Lovelace", "not-an-email")
	require.ErrorIs(t, err, liberr.ErrValidation)
}

func TestNewLibrarian(t *testing.T) {
	librarian, err := NewLibrarian("Giles", "giles@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, librarian.ID, librarian.StaffNum)

	_, err = NewLibrarian("Giles", "nope")
	require.ErrorIs(t, err, liberr.ErrValidation)
}
