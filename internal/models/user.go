package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a marketplace account.
//
// Accounts created through registration start inactive and become active
// once the verification code is confirmed. Accounts created through the
// Google login flow are active immediately.
type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex" json:"email"`
	Username     *string    `gorm:"uniqueIndex" json:"username"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	Products     []Product  `gorm:"foreignKey:OwnerID" json:"products,omitempty"`
	Reviews      []Review   `gorm:"foreignKey:OwnerID" json:"reviews,omitempty"`
}

// AuthToken is the persistent opaque credential issued by the simple
// authorization flow. At most one per user; issuance is get-or-create.
type AuthToken struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Key    string    `gorm:"uniqueIndex" json:"key"`
}
