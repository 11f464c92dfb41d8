package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// User is the domain entity corresponding to the `users` table. Employees
// request rides; admins review them.
type User struct {
	ID           string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string
	Email        string
	EmployeeID   string
	Department   string
	Role         Role
	Status       Status
	PasswordHash string
}

var (
	ErrNotFound          = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrNameRequired      = errors.New("name is required")
	ErrEmptyPasswordHash = errors.New("password hash cannot be empty")
	ErrBadTimestamps     = errors.New("updated_at cannot be before created_at")
)

// NewUser constructs a new User entity. Caller provides the already-hashed
// password; the domain never sees plaintext credentials.
func NewUser(name, email, employeeID, department string, role Role, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		EmployeeID:   strings.TrimSpace(employeeID),
		Department:   strings.TrimSpace(department),
		Role:         role,
		Status:       StatusActive,
		PasswordHash: strings.TrimSpace(passwordHash),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate checks invariants of the User entity.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrNameRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if !u.Status.Valid() {
		return ErrInvalidStatus
	}
	if u.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	if !u.CreatedAt.IsZero() && !u.UpdatedAt.IsZero() && u.UpdatedAt.Before(u.CreatedAt) {
		return ErrBadTimestamps
	}
	return nil
}

// SetStatus transitions the user status. Updates the UpdatedAt timestamp.
func (u *User) SetStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	return nil
}
