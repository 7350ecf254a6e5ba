// internal/service/identity.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/model"
	"github.com/teamlattice/lattice/internal/repository"
)

// IsEmail classifies an identifier: anything containing '@' is treated as
// an email address, everything else as a username. The same heuristic is
// applied to every identifier the API accepts, path segments and body
// fields alike.
func IsEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}

// IdentityResolver translates a free-form identifier (username or email)
// into an account.
type IdentityResolver struct {
	accounts repository.AccountRepositoryIface
}

func NewIdentityResolver(accounts repository.AccountRepositoryIface) *IdentityResolver {
	return &IdentityResolver{accounts: accounts}
}

// Resolve looks the identifier up by email or username. When no account
// matches it returns an IdentifierNotFoundError, which callers interpret
// by context: a managed user must exist, a manager may legitimately not
// exist yet.
func (r *IdentityResolver) Resolve(ctx context.Context, identifier string) (*model.Account, error) {
	if identifier == "" {
		return nil, &domain.IdentifierNotFoundError{Identifier: identifier}
	}

	var (
		account *model.Account
		err     error
	)
	if IsEmail(identifier) {
		account, err = r.accounts.FindByEmail(ctx, identifier)
	} else {
		account, err = r.accounts.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, &domain.IdentifierNotFoundError{Identifier: identifier}
		}
		return nil, err
	}
	return account, nil
}
