package domain

import (
	"context"
	"time"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Authenticate(ctx context.Context, rawToken string) (Identity, error)
	ListUsers(ctx context.Context, usernameContains string) ([]User, error)
	Profile(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) error
	DeleteUser(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, newPassword string) error
	SetStatus(ctx context.Context, userID, status string) error
	// EnsureUser creates the user when the username is free. It reports
	// whether a user was created.
	EnsureUser(ctx context.Context, req RegisterRequest) (bool, error)
}

type RegisterRequest struct {
	Username string
	Password string
	Role     string
}

type LoginRequest struct {
	Username string
	Password string
	ClientIP string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

type UpdateUserRequest struct {
	ID       string
	Username string
	Password string
}
