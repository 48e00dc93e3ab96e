package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is the optional postal address of a user
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// User represents a user in the system
type User struct {
	ID             uuid.UUID `json:"id" db:"id" bson:"_id"`
	Name           string    `json:"name" db:"name" bson:"name"`
	Email          string    `json:"email" db:"email" bson:"email"`
	PasswordHash   string    `json:"-" db:"password_hash" bson:"password,omitempty"` // empty for Google-only accounts
	GoogleID       string    `json:"googleId,omitempty" db:"google_id" bson:"googleId,omitempty"`
	Role           string    `json:"role" db:"role" bson:"role"`
	ProfilePicture string    `json:"profilePicture,omitempty" db:"profile_picture" bson:"profilePicture,omitempty"`
	Address        *Address  `json:"address,omitempty" db:"address" bson:"address,omitempty"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserWithBookingCount is a user row in the admin listing
type UserWithBookingCount struct {
	User
	BookingCount int `json:"bookingCount"`
}

// Actor is the authenticated identity behind a request
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may read a record owned by ownerID
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
