// internal/service/manager_role.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/teamlattice/lattice/internal/audit"
	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/model"
	"github.com/teamlattice/lattice/internal/repository"
)

// InviteNotifier lets the service tell an unregistered manager that a
// relationship now points at their email. Sending is best effort.
type InviteNotifier interface {
	SendManagerInvite(ctx context.Context, managerEmail, managedEmail string) error
}

// ManagerRoleService orchestrates the relationship operations: listing,
// creating (single and bulk) and deleting manager links, with identifiers
// resolved through the identity resolver.
type ManagerRoleService struct {
	roles    repository.ManagerRoleRepositoryIface
	resolver *IdentityResolver
	notifier InviteNotifier
	auditor  audit.Logger
	validate *validator.Validate
}

func NewManagerRoleService(
	roles repository.ManagerRoleRepositoryIface,
	resolver *IdentityResolver,
	notifier InviteNotifier,
	auditor audit.Logger,
) *ManagerRoleService {
	if auditor == nil {
		auditor = &audit.NoOpLogger{}
	}
	return &ManagerRoleService{
		roles:    roles,
		resolver: resolver,
		notifier: notifier,
		auditor:  auditor,
		validate: validator.New(),
	}
}

// ListManagers returns the roles held over a managed user. The identifier
// is used purely as a filter, so querying for a user that does not resolve
// yields an empty list rather than an error.
func (s *ManagerRoleService) ListManagers(ctx context.Context, userIdentifier string) ([]*model.ManagerRole, error) {
	return s.roles.ListByUserIdentifier(ctx, userIdentifier)
}

// ListReports returns the roles under a manager. As with ListManagers the
// identifier degrades to a plain string filter, which also lets callers
// list reports of a manager who has not registered yet.
func (s *ManagerRoleService) ListReports(ctx context.Context, managerIdentifier string) ([]*model.ManagerRole, error) {
	return s.roles.ListByManagerIdentifier(ctx, managerIdentifier)
}

// DistinctManagers lists every distinct manager across all relationships.
func (s *ManagerRoleService) DistinctManagers(ctx context.Context) ([]repository.ManagerProjection, error) {
	return s.roles.DistinctManagers(ctx)
}

type AddManagerInput struct {
	Email string `json:"email" validate:"required,email"`
}

// AddManager links a manager (by email) over the managed user named by
// userIdentifier. The managed user must resolve; the manager email falls
// back to an unregistered placeholder when no account carries it.
func (s *ManagerRoleService) AddManager(ctx context.Context, userIdentifier string, input AddManagerInput) (*model.ManagerRole, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, &domain.ValidationError{Message: "a valid manager email must be specified"}
	}

	user, err := s.resolver.Resolve(ctx, userIdentifier)
	if err != nil {
		return nil, err
	}

	manager, err := s.resolver.Resolve(ctx, input.Email)
	if err != nil {
		if _, notFound := errAsIdentifierNotFound(err); !notFound {
			return nil, err
		}
		return s.create(ctx, user, nil, input.Email)
	}
	return s.create(ctx, user, manager, "")
}

// ReportTargetInput names the account to place under a manager, by email
// or username.
type ReportTargetInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username"`
}

// Identifier returns the effective identifier of the target, preferring
// the email when both fields are present.
func (i ReportTargetInput) Identifier() string {
	if i.Email != "" {
		return i.Email
	}
	return i.Username
}

// AddReport places the target account under the manager named by
// managerIdentifier. The target must resolve to an existing account. The
// manager side resolves opportunistically: an unknown email becomes an
// unregistered placeholder, an unknown username is an error.
func (s *ManagerRoleService) AddReport(ctx context.Context, managerIdentifier string, input ReportTargetInput) (*model.ManagerRole, error) {
	identifier := input.Identifier()
	if identifier == "" {
		return nil, &domain.ValidationError{Message: domain.ErrIdentifierMissing.Error()}
	}

	user, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	manager, err := s.resolver.Resolve(ctx, managerIdentifier)
	if err != nil {
		if _, notFound := errAsIdentifierNotFound(err); !notFound {
			return nil, err
		}
		if !IsEmail(managerIdentifier) {
			return nil, err
		}
		return s.create(ctx, user, nil, managerIdentifier)
	}
	return s.create(ctx, user, manager, "")
}

// BulkError is one failed item of a bulk create.
type BulkError struct {
	Detail string `json:"detail"`
}

// BulkAddOutput carries the accepted and rejected items of a bulk create
// together; partial failure is a success-shaped result.
type BulkAddOutput struct {
	Results []*model.ManagerRole
	Errors  []BulkError
}

// AddReports processes the targets independently, accumulating a
// diagnostic entry for each one that fails. The whole call fails only on
// malformed input: an empty list, or an item naming neither an email nor
// a username, is rejected before any item is processed.
func (s *ManagerRoleService) AddReports(ctx context.Context, managerIdentifier string, inputs []ReportTargetInput) (*BulkAddOutput, error) {
	if len(inputs) == 0 {
		return nil, &domain.ValidationError{Message: domain.ErrIdentifierMissing.Error()}
	}
	for _, input := range inputs {
		if input.Identifier() == "" {
			return nil, &domain.ValidationError{Message: domain.ErrIdentifierMissing.Error()}
		}
	}

	out := &BulkAddOutput{}
	for _, input := range inputs {
		role, err := s.AddReport(ctx, managerIdentifier, input)
		if err != nil {
			out.Errors = append(out.Errors, BulkError{Detail: err.Error()})
			continue
		}
		out.Results = append(out.Results, role)
	}
	return out, nil
}

// RemoveReports deletes the roles under a manager, narrowed to a single
// managed user when userFilter is non-empty. A filter that matches nothing
// is a no-op, not an error.
func (s *ManagerRoleService) RemoveReports(ctx context.Context, managerIdentifier, userFilter string) error {
	affected, err := s.roles.DeleteReports(ctx, managerIdentifier, userFilter)
	if err != nil {
		return err
	}
	_ = s.auditor.LogRoleDelete(ctx, managerIdentifier, userFilter, affected)
	return nil
}

// RemoveManagers deletes the roles over a managed user, narrowed to a
// single manager when managerFilter is non-empty.
func (s *ManagerRoleService) RemoveManagers(ctx context.Context, userIdentifier, managerFilter string) error {
	affected, err := s.roles.DeleteManagers(ctx, userIdentifier, managerFilter)
	if err != nil {
		return err
	}
	_ = s.auditor.LogRoleDelete(ctx, userIdentifier, managerFilter, affected)
	return nil
}

// create persists the relationship with get-or-create semantics. Exactly
// one of manager / pendingEmail is set by the callers.
func (s *ManagerRoleService) create(ctx context.Context, user *model.Account, manager *model.Account, pendingEmail string) (*model.ManagerRole, error) {
	role := &model.ManagerRole{UserID: user.ID}
	switch {
	case manager != nil:
		if manager.ID == user.ID {
			return nil, &domain.ValidationError{Message: domain.ErrSelfManager.Error()}
		}
		role.ManagerID = &manager.ID
	default:
		if strings.EqualFold(user.Email, pendingEmail) {
			return nil, &domain.ValidationError{Message: domain.ErrSelfManager.Error()}
		}
		role.UnregisteredManagerEmail = &pendingEmail
	}

	stored, created, err := s.roles.GetOrCreate(ctx, role)
	if err != nil {
		return nil, err
	}

	if created {
		_ = s.auditor.LogRoleCreate(ctx, stored)
		if stored.UnregisteredManagerEmail != nil && s.notifier != nil {
			if err := s.notifier.SendManagerInvite(ctx, *stored.UnregisteredManagerEmail, user.Email); err != nil {
				slog.WarnContext(ctx, "manager invite email failed",
					"error", err, "manager_email", *stored.UnregisteredManagerEmail)
			}
		}
	}
	return stored, nil
}

func errAsIdentifierNotFound(err error) (*domain.IdentifierNotFoundError, bool) {
	var notFound *domain.IdentifierNotFoundError
	if errors.As(err, &notFound) {
		return notFound, true
	}
	return nil, false
}
