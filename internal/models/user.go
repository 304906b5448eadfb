package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
)

type UserStatus string

const (
	StatusInactive  UserStatus = "inactive"
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusDeleted   UserStatus = "deleted"
)

// CanTransitionTo reports whether the status state machine allows moving to
// next. Deleted is terminal.
func (s UserStatus) CanTransitionTo(next UserStatus) bool {
	switch s {
	case StatusInactive:
		return next == StatusActive
	case StatusActive:
		return next == StatusSuspended || next == StatusDeleted
	case StatusSuspended:
		return next == StatusActive || next == StatusDeleted
	default:
		return false
	}
}

type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:50"`

	// Never serialized; only the hash is stored.
	PasswordHash string `json:"-" gorm:"column:password_hash;not null;size:100"`

	Role   UserRole   `json:"role" gorm:"not null;default:user;size:20;index"`
	Status UserStatus `json:"status" gorm:"not null;default:inactive;size:20;index"`

	// Profile info
	FirstName   string  `json:"first_name" gorm:"size:50"`
	LastName    string  `json:"last_name" gorm:"size:50"`
	DisplayName *string `json:"display_name" gorm:"size:50"`
	PhoneNumber *string `json:"phone_number" gorm:"size:30"`
	Occupation  *string `json:"occupation" gorm:"size:100"`

	SocialProfile  datatypes.JSON `json:"social_profile,omitempty" gorm:"type:jsonb"`
	ProfilePicture datatypes.JSON `json:"profile_picture,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// SocialProfile is the shape stored in User.SocialProfile.
type SocialProfile struct {
	LinkedIn string `json:"linkedIn,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ProfilePicture is the shape stored in User.ProfilePicture. PublicID refers
// to the binary-object storage provider.
type ProfilePicture struct {
	PublicID string `json:"public_id,omitempty"`
	URL      string `json:"url,omitempty"`
}
