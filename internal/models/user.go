package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleRegular = "regular"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

// User represents a registered account.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	GoogleID  string             `bson:"googleId,omitempty" json:"googleId,omitempty"`
	TempID    string             `bson:"tempId,omitempty" json:"tempId,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	LastLogin time.Time          `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

// TempUser represents a guest session. Documents are removed automatically
// by the TTL index on expiresAt; no manual sweep runs.
type TempUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TempID    string             `bson:"tempId" json:"tempId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
}

// GuestLifetime is how long a guest session and its data live.
const GuestLifetime = 14 * 24 * time.Hour
