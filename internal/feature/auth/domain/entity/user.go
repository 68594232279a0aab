// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// An account owns zero or more journal entries; removing it removes them too.
type User struct {
	// ID is an opaque UUID assigned when the user is first persisted.
	ID string `gorm:"primaryKey;size:36"`

	// Name is the display name shown to the user.
	Name string `gorm:"size:255;not null"`

	// Email is the login identity. It is unique and compared case-sensitively.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt encoding of the password.
	// Plaintext passwords are never stored.
	PasswordHash string `gorm:"column:hashed_password;size:255;not null"`

	// IsActive is false for disabled accounts, which can neither log in nor use issued tokens.
	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
