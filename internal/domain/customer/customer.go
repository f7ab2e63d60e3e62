package customer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

// Validation errors
var (
	ErrEmptyName       = errors.New("first and last name cannot be empty")
	ErrInvalidEmail    = errors.New("email address is invalid")
	ErrPasswordTooWeak = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// Customer is the owner of accounts. Only the bcrypt hash of the password is
// kept.
type Customer struct {
	ID           uuid.UUID `json:"Id"`
	FirstName    string    `json:"FirstName"`
	LastName     string    `json:"LastName"`
	Email        string    `json:"Email"`
	PasswordHash string    `json:"PasswordHash"`
	CreatedAt    time.Time `json:"CreatedAt"`
	UpdatedAt    time.Time `json:"UpdatedAt"`
}

// NewCustomer validates the registration details and hashes the password
func NewCustomer(firstName, lastName, email, password string, now time.Time) (Customer, error) {
	firstName, lastName, email, err := normalizeDetails(firstName, lastName, email)
	if err != nil {
		return Customer{}, err
	}
	if len(password) < MinPasswordLength {
		return Customer{}, ErrPasswordTooWeak
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return Customer{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail is the form emails are stored and compared in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeDetails(firstName, lastName, email string) (string, string, string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return "", "", "", ErrEmptyName
	}

	email = NormalizeEmail(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", "", "", ErrInvalidEmail
	}
	return firstName, lastName, email, nil
}

// WithDetails returns the customer with its name and email replaced
func (c Customer) WithDetails(firstName, lastName, email string, now time.Time) (Customer, error) {
	firstName, lastName, email, err := normalizeDetails(firstName, lastName, email)
	if err != nil {
		return c, err
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.Email = email
	c.UpdatedAt = now
	return c, nil
}

// CheckPassword reports whether password matches the stored hash
func (c Customer) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
