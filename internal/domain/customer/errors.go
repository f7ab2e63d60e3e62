package customer

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrCustomerNotFound indicates a lookup miss by id or by email
type ErrCustomerNotFound struct {
	CustomerID uuid.UUID
	Email      string
}

func (e ErrCustomerNotFound) Error() string {
	if e.Email != "" {
		return "customer not found: " + e.Email
	}
	return "customer not found: " + e.CustomerID.String()
}

// Is matches any ErrCustomerNotFound when the target carries no identity
func (e ErrCustomerNotFound) Is(target error) bool {
	t, ok := target.(ErrCustomerNotFound)
	if !ok {
		return false
	}
	if t.CustomerID == uuid.Nil && t.Email == "" {
		return true
	}
	return e.CustomerID == t.CustomerID && e.Email == t.Email
}

// ErrDuplicateEmail indicates the email is registered to another customer
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "customer with email already exists: " + e.Email
}

// Is matches any ErrDuplicateEmail when the target has no email
func (e ErrDuplicateEmail) Is(target error) bool {
	t, ok := target.(ErrDuplicateEmail)
	if !ok {
		return false
	}
	if t.Email == "" {
		return true
	}
	return e.Email == t.Email
}
