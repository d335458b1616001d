// internal/membership/domain.go
package membership

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"libris/internal/liberr"
)

// Member represents a library member. Members are deactivated rather than
// deleted while they still have loans outstanding; the aggregate enforces
// the removal rule.
type Member struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Active bool      `json:"active"`
}

// Librarian represents a staff account created at setup.
type Librarian struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	StaffNum uuid.UUID `json:"staff_num"`
}

// Credential holds a member's login secret. The hash and salt never leave
// the process.
type Credential struct {
	MemberID     uuid.UUID `json:"member_id"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
}

// NewMember builds an active member, validating name and email.
func NewMember(name, email string) (*Member, error) {
	if err := validatePerson(name, email); err != nil {
		return nil, err
	}
	return &Member{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
		Active: true,
	}, nil
}

// NewLibrarian builds a librarian with a generated staff number.
func NewLibrarian(name, email string) (*Librarian, error) {
	if err := validatePerson(name, email); err != nil {
		return nil, err
	}
	return &Librarian{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		StaffNum: uuid.New(),
	}, nil
}

func validatePerson(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be blank", liberr.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address", liberr.ErrValidation)
	}
	return nil
}
