package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// User holds the schema definition for the User entity.
type User struct {
	ent.Schema
}

// Fields of the User.
func (User) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			Comment("user ID"),
		field.String("username").
			NotEmpty().
			Unique().
			MaxLen(50).
			Comment("login name"),
		field.String("password_hash").
			NotEmpty().
			Sensitive(). // never returned by queries
			Comment("bcrypt password hash"),
		field.Time("last_login_at").
			Optional().
			Nillable().
			Comment("last successful login"),
		field.Time("deleted_at").
			Optional().
			Nillable().
			Comment("soft delete marker (NULL means active)"),
		field.Time("created_at").
			Default(time.Now).
			Immutable().
			Comment("creation time"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("update time"),
	}
}

// Indexes of the User.
func (User) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("username"),
		// fast filtering of active users
		index.Fields("deleted_at"),
	}
}
