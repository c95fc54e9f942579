package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
	"github.com/pixellab01/dashboard/internal/ent"
	"github.com/pixellab01/dashboard/internal/ent/user"
)

// userRepository is the database implementation of UserRepository
type userRepository struct {
	client *ent.Client
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(client *ent.Client) domain.UserRepository {
	return &userRepository{
		client: client,
	}
}

// Create creates a user
func (r *userRepository) Create(ctx context.Context, username, passwordHash string) (*entity.User, error) {
	created, err := r.client.User.Create().
		SetUsername(username).
		SetPasswordHash(passwordHash).
		Save(ctx)

	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, domain.NewAlreadyExistsError("User", username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserEntity(created), nil
}

// GetByUsername looks a user up by name (active users only)
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := r.client.User.Query().
		Where(
			user.Username(username),
			user.DeletedAtIsNil(),
		).
		Only(ctx)

	if err != nil {
		if ent.IsNotFound(err) {
			return nil, domain.NewNotFoundError("User", username)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return toUserEntity(u), nil
}

// GetByID looks a user up by ID (active users only)
func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	u, err := r.client.User.Query().
		Where(
			user.ID(uid),
			user.DeletedAtIsNil(),
		).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, domain.NewNotFoundError("User", userID)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return toUserEntity(u), nil
}

// List returns a page of active users
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	users, err := r.client.User.Query().
		Where(user.DeletedAtIsNil()).
		Order(ent.Desc(user.FieldCreatedAt)).
		Offset(offset).
		Limit(limit).
		All(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]*entity.User, len(users))
	for i, u := range users {
		result[i] = toUserEntity(u)
	}

	return result, nil
}

// Count returns the number of active users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	count, err := r.client.User.Query().
		Where(user.DeletedAtIsNil()).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// Delete soft-deletes a user
func (r *userRepository) Delete(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	now := time.Now()
	err = r.client.User.UpdateOneID(uid).
		Where(user.DeletedAtIsNil()).
		SetDeletedAt(now).
		Exec(ctx)

	if err != nil {
		if ent.IsNotFound(err) {
			return domain.NewNotFoundError("User", userID)
		}
		return fmt.Errorf("failed to soft delete user: %w", err)
	}

	return nil
}

// UpdateLastLogin records a successful login
func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	now := time.Now()
	err = r.client.User.UpdateOneID(uid).
		SetLastLoginAt(now).
		Exec(ctx)

	if err != nil {
		if ent.IsNotFound(err) {
			return domain.NewNotFoundError("User", userID)
		}
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}
