package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Moderators and admins may mutate other users'
// reviews and comments; admins additionally manage the catalogue.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	Username  string  `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string  `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string  `gorm:"size:150" json:"first_name"`
	LastName  string  `gorm:"size:150" json:"last_name"`
	Bio       *string `gorm:"type:text" json:"bio,omitempty"`
	Role      string  `gorm:"size:255;default:'user';not null" json:"role"`

	// Superuser and staff flags exist independently of Role and also grant
	// elevated access in the permission checks.
	IsSuperuser bool `gorm:"default:false" json:"-"`
	IsStaff     bool `gorm:"default:false" json:"-"`

	// ConfirmationCode is a delivery-correlation token assigned at signup and
	// exchanged for a session credential. Never serialized.
	ConfirmationCode string `gorm:"size:32" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
