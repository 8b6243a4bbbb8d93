package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes ordinary users from operators who can run
// admin deposits.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("password must be at least 8 characters long")
)

// User is an account holder. Mutable fields are unexported and guarded by
// accessors so format invariants are enforced at the type boundary rather
// than by callers.
type User struct {
	id           string
	email        string
	passwordHash string
	name         string
	role         UserRole
	isActive     bool
	createdAt    time.Time
}

// NewUser validates inputs and builds a user with a fresh id.
func NewUser(email, passwordHash, name string, role UserRole) (*User, error) {
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(passwordHash) < 8 {
		return nil, ErrInvalidPassword
	}
	return &User{
		id:           uuid.New().String(),
		email:        email,
		passwordHash: passwordHash,
		name:         name,
		role:         role,
		isActive:     true,
		createdAt:    time.Now(),
	}, nil
}

func (u *User) ID() string           { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) Role() UserRole       { return u.role }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// SetEmail rejects malformed addresses before mutating.
func (u *User) SetEmail(email string) error {
	if !validEmail(email) {
		return ErrInvalidEmail
	}
	u.email = email
	return nil
}

func (u *User) Deactivate() { u.isActive = false }

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// UserView is the read-only reporting projection of a User. The password
// hash is deliberately omitted.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) View() UserView {
	return UserView{
		ID:        u.id,
		Email:     u.email,
		Name:      u.name,
		Role:      u.role,
		IsActive:  u.isActive,
		CreatedAt: u.createdAt,
	}
}
