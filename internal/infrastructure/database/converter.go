package database

import (
	"github.com/pixellab01/dashboard/internal/domain/entity"
	"github.com/pixellab01/dashboard/internal/ent"
)

// toUserEntity converts ent.User to the domain entity at the
// infrastructure/domain boundary.
func toUserEntity(u *ent.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		LastLoginAt:  u.LastLoginAt,
		DeletedAt:    u.DeletedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
