package domain

import (
	"context"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// ============ Repository interface ============

// UserRepository is the user data access interface
type UserRepository interface {
	// Create creates a user
	Create(ctx context.Context, username, passwordHash string) (*entity.User, error)

	// GetByUsername looks a user up by name (for login)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// GetByID looks a user up by ID
	GetByID(ctx context.Context, userID string) (*entity.User, error)

	// List returns a page of users
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)

	// Count returns the total user count
	Count(ctx context.Context) (int, error)

	// Delete removes a user
	Delete(ctx context.Context, userID string) error

	// UpdateLastLogin records a successful login
	UpdateLastLogin(ctx context.Context, userID string) error
}

// ============ Usecase interface ============

// UserUsecase is the user business logic interface
type UserUsecase interface {
	// Register registers a user
	Register(ctx context.Context, username, password string) (*entity.User, error)

	// Login verifies credentials and returns the user
	Login(ctx context.Context, username, password string) (*entity.User, error)

	// GetUser returns user information
	GetUser(ctx context.Context, userID string) (*entity.User, error)

	// ListUsers returns a page of users plus the total count
	ListUsers(ctx context.Context, page, pageSize int) ([]*entity.User, int, error)

	// DeleteUser removes a user
	DeleteUser(ctx context.Context, userID string) error
}
