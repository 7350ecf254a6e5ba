// internal/repository/account.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/model"
)

type AccountRepositoryIface interface {
	Create(ctx context.Context, account *model.Account) error
	Upsert(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	FindAllPaginated(ctx context.Context, offset, limit int) ([]*model.Account, int64, error)
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

// Upsert inserts an account mirrored from an upstream directory
// notification, updating username and email if the id is already known.
func (r *AccountRepository) Upsert(ctx context.Context, account *model.Account) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "email", "updated_at"}),
	}).Create(account)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert account: %w", result.Error)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	result := r.db.WithContext(ctx).First(&account, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", result.Error)
	}
	return &account, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", result.Error)
	}
	return &account, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", result.Error)
	}
	return &account, nil
}

// FindAllPaginated returns a paginated list of accounts
func (r *AccountRepository) FindAllPaginated(ctx context.Context, offset, limit int) ([]*model.Account, int64, error) {
	var accounts []*model.Account
	var count int64

	if err := r.db.WithContext(ctx).Model(&model.Account{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	result := r.db.WithContext(ctx).Order("created_at").Offset(offset).Limit(limit).Find(&accounts)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to find paginated accounts: %w", result.Error)
	}

	return accounts, count, nil
}
