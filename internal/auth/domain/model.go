// Package domain contains core types for the auth service.
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is a user's capability level.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleKarigar    Role = "karigar"
)

// Privileged roles may manage users and run catalog imports.
var Privileged = []Role{RoleAdmin, RoleSuperAdmin}

// ParseRole accepts a role name case-insensitively. A blank value is RoleUser.
func ParseRole(value string) (Role, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return RoleUser, nil
	}
	r := Role(value)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	return r.In(RoleSuperAdmin, RoleAdmin, RoleUser, RoleKarigar)
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	return slices.Contains(roles, r)
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if s != StatusActive && s != StatusInactive {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// User represents a back-office account.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Username     string       `gorm:"type:text;not null;uniqueIndex" json:"username"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null" json:"-"`
	Status       Status       `gorm:"type:text;not null;default:active" json:"status"`
	Role         Role         `gorm:"type:text;not null;default:user" json:"role"`
	CreatedAt    time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

func (u User) Active() bool {
	return u.Status == StatusActive
}

// Identity is the caller carried by a verified bearer token.
type Identity struct {
	UserID   snowflake.ID
	Username string
	Role     Role
	Status   Status
}

// Privileged reports whether the caller is an active admin or superadmin.
func (i Identity) Privileged() bool {
	return i.Status == StatusActive && i.Role.In(Privileged...)
}
