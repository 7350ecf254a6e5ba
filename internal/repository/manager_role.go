// internal/repository/manager_role.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamlattice/lattice/internal/model"
)

// ManagerProjection is one row of the distinct-manager listing. Username
// and account email are nil for managers without a registered account.
type ManagerProjection struct {
	ManagerUsername          *string `json:"manager_username"`
	ManagerEmail             *string `json:"manager_email"`
	UnregisteredManagerEmail *string `json:"unregistered_manager_email"`
}

// Email returns the manager's effective email for the projection.
func (p ManagerProjection) Email() string {
	if p.ManagerUsername != nil && p.ManagerEmail != nil {
		return *p.ManagerEmail
	}
	if p.UnregisteredManagerEmail != nil {
		return *p.UnregisteredManagerEmail
	}
	return ""
}

type ManagerRoleRepositoryIface interface {
	GetOrCreate(ctx context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error)
	ListByManagerIdentifier(ctx context.Context, identifier string) ([]*model.ManagerRole, error)
	ListByUserIdentifier(ctx context.Context, identifier string) ([]*model.ManagerRole, error)
	DistinctManagers(ctx context.Context) ([]ManagerProjection, error)
	DeleteReports(ctx context.Context, managerIdentifier, userIdentifier string) (int64, error)
	DeleteManagers(ctx context.Context, userIdentifier, managerIdentifier string) (int64, error)
	UpgradeUnregistered(ctx context.Context, managerID uuid.UUID, email string) (int64, error)
}

type ManagerRoleRepository struct {
	db *gorm.DB
}

func NewManagerRoleRepository(db *gorm.DB) *ManagerRoleRepository {
	return &ManagerRoleRepository{db: db}
}

// GetOrCreate inserts the role, resolving a duplicate of the
// (user, manager) or (user, unregistered email) unique pairs to the
// existing row. The bool reports whether a new row was created. A
// concurrent insert that loses the uniqueness race is absorbed by
// re-fetching after gorm.ErrDuplicatedKey.
func (r *ManagerRoleRepository) GetOrCreate(ctx context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
	existing, err := r.findByUniquePair(ctx, role)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up manager role: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err = r.findByUniquePair(ctx, role)
			if err != nil {
				return nil, false, fmt.Errorf("failed to resolve duplicate manager role: %w", err)
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	created, err := r.findByID(ctx, role.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload manager role: %w", err)
	}
	return created, true, nil
}

func (r *ManagerRoleRepository) findByUniquePair(ctx context.Context, role *model.ManagerRole) (*model.ManagerRole, error) {
	query := r.db.WithContext(ctx).Preload("User").Preload("Manager")
	if role.ManagerID != nil {
		query = query.Where("user_id = ? AND manager_id = ?", role.UserID, role.ManagerID)
	} else {
		query = query.Where("user_id = ? AND unregistered_manager_email = ?", role.UserID, role.UnregisteredManagerEmail)
	}

	var found model.ManagerRole
	if err := query.First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *ManagerRoleRepository) findByID(ctx context.Context, id uuid.UUID) (*model.ManagerRole, error) {
	var found model.ManagerRole
	err := r.db.WithContext(ctx).Preload("User").Preload("Manager").First(&found, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// ListByManagerIdentifier returns the roles under a manager, where the
// identifier is a username or email address. An email also matches rows
// still waiting for the manager to register.
func (r *ManagerRoleRepository) ListByManagerIdentifier(ctx context.Context, identifier string) ([]*model.ManagerRole, error) {
	var roles []*model.ManagerRole
	query := r.scopeByManager(r.db.WithContext(ctx), identifier).
		Preload("User").Preload("Manager").
		Order("manager_id").Order("created_at")
	if err := query.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles by manager: %w", err)
	}
	return roles, nil
}

// ListByUserIdentifier returns the roles held over a managed user, where
// the identifier is a username or email address.
func (r *ManagerRoleRepository) ListByUserIdentifier(ctx context.Context, identifier string) ([]*model.ManagerRole, error) {
	var roles []*model.ManagerRole
	query := r.scopeByUser(r.db.WithContext(ctx), identifier).
		Preload("User").Preload("Manager").
		Order("manager_id").Order("created_at")
	if err := query.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles by user: %w", err)
	}
	return roles, nil
}

// DistinctManagers projects the distinct (manager account, unregistered
// email) pairs across all roles; users sharing a manager collapse to one row.
func (r *ManagerRoleRepository) DistinctManagers(ctx context.Context) ([]ManagerProjection, error) {
	var rows []ManagerProjection
	err := r.db.WithContext(ctx).Model(&model.ManagerRole{}).
		Joins("LEFT JOIN accounts ON accounts.id = manager_roles.manager_id").
		Select("DISTINCT accounts.username AS manager_username, accounts.email AS manager_email, manager_roles.unregistered_manager_email").
		Order("manager_username").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to project distinct managers: %w", err)
	}
	return rows, nil
}

// DeleteReports removes roles under a manager, optionally narrowed to a
// single managed user. An empty userIdentifier removes every report. A
// filter matching nothing deletes zero rows; that is not an error.
func (r *ManagerRoleRepository) DeleteReports(ctx context.Context, managerIdentifier, userIdentifier string) (int64, error) {
	query := r.scopeByManager(r.db.WithContext(ctx), managerIdentifier)
	if userIdentifier != "" {
		query = r.scopeByUser(query, userIdentifier)
	}
	result := query.Delete(&model.ManagerRole{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteManagers removes roles over a managed user, optionally narrowed to
// a single manager.
func (r *ManagerRoleRepository) DeleteManagers(ctx context.Context, userIdentifier, managerIdentifier string) (int64, error) {
	query := r.scopeByUser(r.db.WithContext(ctx), userIdentifier)
	if managerIdentifier != "" {
		query = r.scopeByManager(query, managerIdentifier)
	}
	result := query.Delete(&model.ManagerRole{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete managers: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// UpgradeUnregistered rewrites every role waiting on the given email to a
// proper reference to the newly registered manager account. This is a
// single conditional UPDATE; rows with other pending emails, and rows
// inserted after the statement commits, are untouched. Hooks are skipped:
// BeforeSave validates single-row state and would reject the blank model
// receiver of a bulk update.
func (r *ManagerRoleRepository) UpgradeUnregistered(ctx context.Context, managerID uuid.UUID, email string) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&model.ManagerRole{}).
		Where("unregistered_manager_email = ?", email).
		Updates(map[string]interface{}{
			"manager_id":                 managerID,
			"unregistered_manager_email": nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upgrade unregistered manager roles: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// scopeByManager narrows a ManagerRole query to a manager identifier. An
// email identifier matches both registered manager accounts and roles that
// only carry the unregistered email, so listings work before the manager
// ever signs up.
func (r *ManagerRoleRepository) scopeByManager(query *gorm.DB, identifier string) *gorm.DB {
	if identifier == "" {
		return query
	}
	if strings.Contains(identifier, "@") {
		byEmail := r.db.Model(&model.Account{}).Select("id").Where("email = ?", identifier)
		return query.Where("manager_id IN (?) OR unregistered_manager_email = ?", byEmail, identifier)
	}
	byUsername := r.db.Model(&model.Account{}).Select("id").Where("username = ?", identifier)
	return query.Where("manager_id IN (?)", byUsername)
}

// scopeByUser narrows a ManagerRole query to a managed-user identifier.
func (r *ManagerRoleRepository) scopeByUser(query *gorm.DB, identifier string) *gorm.DB {
	if identifier == "" {
		return query
	}
	var sub *gorm.DB
	if strings.Contains(identifier, "@") {
		sub = r.db.Model(&model.Account{}).Select("id").Where("email = ?", identifier)
	} else {
		sub = r.db.Model(&model.Account{}).Select("id").Where("username = ?", identifier)
	}
	return query.Where("user_id IN (?)", sub)
}
