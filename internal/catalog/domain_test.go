// internal/catalog/domain_test.go
package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/liberr"
)

func TestNewBook(t *testing.T) {
	book, err := NewBook("Pride and Prejudice", []string{"Jane Austen"}, 1813, []string{"Classic"})
	require.NoError(t, err)

	assert.Equal(t, KindBook, book.Kind)
	assert.Equal(t, StatusAvailable, book.Status)
	assert.True(t, book.Available())
	assert.NotEqual(t, book.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewBookValidation(t *testing.T) {
	cases := []struct {
		name       string
		title      string
		authors    []string
		year       int
		categories []string
	}{
		{"blank title", "  ", []string{"A"}, 2000, []string{"C"}},
		{"no authors", "T", nil, 2000, []string{"C"}},
		{"blank-only authors", "T", []string{"  "}, 2000, []string{"C"}},
		{"negative year", "T", []string{"A"}, -1, []string{"C"}},
		{"no categories", "T", []string{"A"}, 2000, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBook(tc.title, tc.authors, tc.year, tc.categories)
			require.Error(t, err)
			assert.True(t, errors.Is(err, liberr.ErrValidation))
		})
	}
}

func TestNewDVDValidation(t *testing.T) {
	_, err := NewDVD("Arrival", -1, "12", []string{"SciFi"})
	require.ErrorIs(t, err, liberr.ErrValidation)

	_, err = NewDVD("Arrival", 116, " ", []string{"SciFi"})
	require.ErrorIs(t, err, liberr.ErrValidation)

	dvd, err := NewDVD("Arrival", 116, "12", []string{"SciFi"})
	require.NoError(t, err)
	assert.Equal(t, KindDVD, dvd.Kind)
	assert.Equal(t, 116, dvd.DurationMinutes)
}

func TestNewMagazineValidation(t *testing.T) {
	_, err := NewMagazine("New Scientist", "", 2024, []string{"Science"})
	require.ErrorIs(t, err, liberr.ErrValidation)

	magazine, err := NewMagazine("New Scientist", "New Scientist Ltd", 2024, []string{"Science"})
	require.NoError(t, err)
	assert.Equal(t, KindMagazine, magazine.Kind)
	assert.Equal(t, "New Scientist Ltd", magazine.Publisher)
}

func TestItemMatches(t *testing.T) {
	book, err := NewBook("The Left Hand of Darkness", []string{"Ursula K. Le Guin"}, 1969, []string{"SciFi"})
	require.NoError(t, err)

	assert.True(t, book.Matches("left hand"))
	assert.True(t, book.Matches("LE GUIN"))
	assert.False(t, book.Matches("tolkien"))
	assert.False(t, book.Matches("  "))

	magazine, err := NewMagazine("Wired", "Condé Nast", 2024, []string{"Tech"})
	require.NoError(t, err)
	assert.True(t, magazine.Matches("condé"))
}
