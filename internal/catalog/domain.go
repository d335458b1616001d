// internal/catalog/domain.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"libris/internal/liberr"
)

// Kind discriminates the closed set of media variants.
type Kind string

const (
	KindBook     Kind = "book"
	KindDVD      Kind = "dvd"
	KindMagazine Kind = "magazine"
)

// Status is the availability state of a media item. It only changes
// through the library aggregate's operations.
type Status string

const (
	StatusAvailable Status = "available"
	StatusOnLoan    Status = "on_loan"
	StatusReserved  Status = "reserved"
)

// Item represents a single copy of a catalogued media item. The shared
// fields are meaningful for every kind; the remaining fields belong to the
// kind named in the comment and are zero otherwise.
type Item struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	Status     Status    `json:"status"`
	Title      string    `json:"title"`
	Year       int       `json:"year,omitempty"`
	Categories []string  `json:"categories"`

	Authors []string `json:"authors,omitempty"` // books

	Publisher string `json:"publisher,omitempty"` // magazines

	DurationMinutes int    `json:"duration_minutes,omitempty"` // dvds
	AgeRating       string `json:"age_rating,omitempty"`       // dvds
}

// NewBook builds an available book, validating its field guards.
func NewBook(title string, authors []string, year int, categories []string) (*Item, error) {
	if err := validateShared(title, year, categories); err != nil {
		return nil, err
	}
	authors = trimAll(authors)
	if len(authors) == 0 {
		return nil, fmt.Errorf("%w: book needs at least one author", liberr.ErrValidation)
	}
	return &Item{
		ID:         uuid.New(),
		Kind:       KindBook,
		Status:     StatusAvailable,
		Title:      strings.TrimSpace(title),
		Year:       year,
		Categories: trimAll(categories),
		Authors:    authors,
	}, nil
}

// NewDVD builds an available DVD, validating its field guards.
func NewDVD(title string, durationMinutes int, ageRating string, categories []string) (*Item, error) {
	if err := validateShared(title, 0, categories); err != nil {
		return nil, err
	}
	if durationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", liberr.ErrValidation)
	}
	if strings.TrimSpace(ageRating) == "" {
		return nil, fmt.Errorf("%w: age rating cannot be blank", liberr.ErrValidation)
	}
	return &Item{
		ID:              uuid.New(),
		Kind:            KindDVD,
		Status:          StatusAvailable,
		Title:           strings.TrimSpace(title),
		Categories:      trimAll(categories),
		DurationMinutes: durationMinutes,
		AgeRating:       strings.TrimSpace(ageRating),
	}, nil
}

// NewMagazine builds an available magazine, validating its field guards.
func NewMagazine(title, publisher string, year int, categories []string) (*Item, error) {
	if err := validateShared(title, year, categories); err != nil {
		return nil, err
	}
	if strings.TrimSpace(publisher) == "" {
		return nil, fmt.Errorf("%w: publisher cannot be blank", liberr.ErrValidation)
	}
	return &Item{
		ID:         uuid.New(),
		Kind:       KindMagazine,
		Status:     StatusAvailable,
		Title:      strings.TrimSpace(title),
		Year:       year,
		Categories: trimAll(categories),
		Publisher:  strings.TrimSpace(publisher),
	}, nil
}

// Available reports whether the item can currently be loaned.
func (i *Item) Available() bool {
	return i.Status == StatusAvailable
}

// Matches reports whether the query occurs, case-insensitively, in the
// item's title, authors, or publisher.
func (i *Item) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(i.Title), q) {
		return true
	}
	for _, a := range i.Authors {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return i.Publisher != "" && strings.Contains(strings.ToLower(i.Publisher), q)
}

func validateShared(title string, year int, categories []string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be blank", liberr.ErrValidation)
	}
	if year < 0 {
		return fmt.Errorf("%w: year cannot be negative", liberr.ErrValidation)
	}
	if len(trimAll(categories)) == 0 {
		return fmt.Errorf("%w: categories cannot be empty", liberr.ErrValidation)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
