// internal/service/account.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/teamlattice/lattice/internal/auth"
	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/event"
	"github.com/teamlattice/lattice/internal/model"
	"github.com/teamlattice/lattice/internal/repository"
)

// AccountService is the local face of the platform account directory. It
// provisions accounts, mirrors accounts announced on the account stream,
// and authenticates staff callers. Every new account, whichever way it
// arrives, is announced on the event bus so the upgrade reactor runs.
type AccountService struct {
	repo           repository.AccountRepositoryIface
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	bus            *event.Bus
	validate       *validator.Validate
}

func NewAccountService(
	repo repository.AccountRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	bus *event.Bus,
) *AccountService {
	return &AccountService{
		repo:           repo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		bus:            bus,
		validate:       validator.New(),
	}
}

type CreateAccountInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	IsStaff  bool   `json:"is_staff"`
}

// CreateAccount provisions a new account and publishes the corresponding
// AccountCreated event.
func (s *AccountService) CreateAccount(ctx context.Context, input CreateAccountInput) (*model.Account, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, &domain.ValidationError{Message: "a username and a valid email must be specified"}
	}

	account := &model.Account{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		IsStaff:  input.IsStaff,
	}

	if input.Password != "" {
		hash, err := s.passwordHasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		account.PasswordHash = hash
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.bus.PublishAccountCreated(ctx, event.AccountCreated{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	})

	return account, nil
}

// Mirror stores an account announced by the upstream directory and
// publishes it on the bus. Repeated announcements for the same account id
// are absorbed by the upsert.
func (s *AccountService) Mirror(ctx context.Context, id uuid.UUID, username, email string) error {
	account := &model.Account{
		ID:       id,
		Username: username,
		Email:    email,
	}
	if err := s.repo.Upsert(ctx, account); err != nil {
		return err
	}

	s.bus.PublishAccountCreated(ctx, event.AccountCreated{
		AccountID: id,
		Username:  username,
		Email:     email,
	})
	return nil
}

// GetAccount looks up a single account by id.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// AccountPage is one page of the account directory listing.
type AccountPage struct {
	Accounts []*model.Account `json:"accounts"`
	Total    int64            `json:"total"`
}

const (
	defaultAccountPageSize = 50
	maxAccountPageSize     = 200
)

// ListAccounts returns a page of accounts ordered by creation time,
// together with the total count. Out-of-range paging values are clamped.
func (s *AccountService) ListAccounts(ctx context.Context, offset, limit int) (*AccountPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultAccountPageSize
	}
	if limit > maxAccountPageSize {
		limit = maxAccountPageSize
	}

	accounts, total, err := s.repo.FindAllPaginated(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &AccountPage{Accounts: accounts, Total: total}, nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	Account *model.Account `json:"account"`
	Token   string         `json:"token"`
}

// Login verifies credentials and issues a token carrying the staff
// capability flag.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if account.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	verified, err := s.passwordHasher.Verify(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !verified {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenManager.Generate(account.ID.String(), account.Email, account.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginOutput{Account: account, Token: token}, nil
}
