// internal/model/manager_role.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamlattice/lattice/internal/domain"
)

// ManagerRole links a managed account to its manager. When the manager has
// not registered an account yet, only their email is recorded; the upgrade
// reactor rewrites the row to a proper account reference once a matching
// account appears.
//
// Exactly one of ManagerID / UnregisteredManagerEmail is set at any time.
type ManagerRole struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_manager_roles_user_manager;uniqueIndex:idx_manager_roles_user_pending" json:"user_id"`
	User   Account   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`

	ManagerID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_manager_roles_user_manager" json:"manager_id"`
	Manager   *Account   `gorm:"foreignKey:ManagerID;constraint:OnDelete:CASCADE" json:"manager,omitempty"`

	// Upgraded to a foreign key to the manager's account when they register.
	UnregisteredManagerEmail *string `gorm:"type:citext;uniqueIndex:idx_manager_roles_user_pending" json:"unregistered_manager_email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManagerEmail returns the manager's email regardless of whether the
// manager has a registered account.
func (r *ManagerRole) ManagerEmail() string {
	if r.Manager != nil {
		return r.Manager.Email
	}
	if r.UnregisteredManagerEmail != nil {
		return *r.UnregisteredManagerEmail
	}
	return ""
}

// ManagerUsername returns the manager's username, or nil for an
// unregistered manager.
func (r *ManagerRole) ManagerUsername() *string {
	if r.Manager != nil {
		return &r.Manager.Username
	}
	return nil
}

// BeforeSave enforces the row invariants: a manager target must be set
// exactly one way, and an account can never be its own manager, not even
// through the unregistered-email path.
func (r *ManagerRole) BeforeSave(tx *gorm.DB) error {
	hasManager := r.ManagerID != nil
	hasPending := r.UnregisteredManagerEmail != nil

	if hasManager == hasPending {
		return &domain.ValidationError{Message: domain.ErrManagerTargetless.Error()}
	}

	if hasManager && *r.ManagerID == r.UserID {
		return &domain.ValidationError{Message: domain.ErrSelfManager.Error()}
	}

	if hasPending {
		var userEmail string
		if err := tx.Model(&Account{}).Select("email").Where("id = ?", r.UserID).Scan(&userEmail).Error; err != nil {
			return err
		}
		if strings.EqualFold(userEmail, *r.UnregisteredManagerEmail) {
			return &domain.ValidationError{Message: domain.ErrSelfManager.Error()}
		}
	}

	return nil
}
