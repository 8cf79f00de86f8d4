// Package domain defines the company and user entities. Users own assets as
// their responsible party and receive password-change notifications.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/errors"
)

// Role is the access level of a user inside its company.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAgencyUser Role = "agency_user"
	RoleEmployee   Role = "employee"
)

// Roles lists every supported role.
var Roles = []Role{RoleAdmin, RoleManager, RoleAgencyUser, RoleEmployee}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Company is a tenant. Every user and asset belongs to exactly one company.
type Company struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// User is a member of a company.
type User struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	Name         string
	Email        string
	Phone        *string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Domain-specific errors for company and user operations.
var (
	// ErrCompanyNotFound indicates the requested company does not exist.
	ErrCompanyNotFound = errors.Wrap(errors.ErrNotFound, "company not found")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidRole indicates the role is not one of the supported roles.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")
)
