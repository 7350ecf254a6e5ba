// internal/model/account.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a user account in the platform directory. Accounts are either
// provisioned through the staff API or mirrored in from account-created
// notifications published by the upstream directory.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
