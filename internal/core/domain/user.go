package domain

import (
	"strings"
	"time"
)

// Role is the closed set of actors on the marketplace.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "SELLER"
	RoleBuyer  Role = "BUYER"
	RoleVet    Role = "VET"
)

// ParseRole accepts the canonical role names only, case-insensitively.
// "VETERINARIAN" is deliberately not an alias of VET.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleSeller, RoleBuyer, RoleVet:
		return r, true
	}
	return "", false
}

// Identity is the authenticated principal resolved from a session token.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the superuser role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the user onto the fields carried by a token.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
