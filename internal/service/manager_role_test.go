package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/mocks"
	"github.com/teamlattice/lattice/internal/model"
	"github.com/teamlattice/lattice/internal/service"
)

type fakeNotifier struct {
	calls [][2]string
	err   error
}

func (f *fakeNotifier) SendManagerInvite(ctx context.Context, managerEmail, managedEmail string) error {
	f.calls = append(f.calls, [2]string{managerEmail, managedEmail})
	return f.err
}

func TestAddManager(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &model.Account{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com"}
	manager := &model.Account{ID: uuid.New(), Username: "boss", Email: "boss@example.com"}

	t.Run("links a registered manager", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByEmail(gomock.Any(), "boss@example.com").Return(manager, nil)
		roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				assert.Equal(t, user.ID, role.UserID)
				assert.Equal(t, manager.ID, *role.ManagerID)
				assert.Nil(t, role.UnregisteredManagerEmail)
				role.Manager = manager
				return role, true, nil
			})

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		role, err := svc.AddManager(context.Background(), "jdoe", service.AddManagerInput{Email: "boss@example.com"})
		assert.NoError(t, err)
		assert.Equal(t, "boss@example.com", role.ManagerEmail())
	})

	t.Run("unknown manager email becomes a pending role and sends an invite", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		notifier := &fakeNotifier{}

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByEmail(gomock.Any(), "new@example.com").Return(nil, domain.ErrAccountNotFound)
		roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				assert.Nil(t, role.ManagerID)
				assert.Equal(t, "new@example.com", *role.UnregisteredManagerEmail)
				return role, true, nil
			})

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), notifier, nil)

		role, err := svc.AddManager(context.Background(), "jdoe", service.AddManagerInput{Email: "new@example.com"})
		assert.NoError(t, err)
		assert.Nil(t, role.ManagerUsername())
		assert.Equal(t, "new@example.com", role.ManagerEmail())
		if assert.Len(t, notifier.calls, 1) {
			assert.Equal(t, "new@example.com", notifier.calls[0][0])
			assert.Equal(t, "jdoe@example.com", notifier.calls[0][1])
		}
	})

	t.Run("no invite for an existing role", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		notifier := &fakeNotifier{}

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByEmail(gomock.Any(), "new@example.com").Return(nil, domain.ErrAccountNotFound)
		roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				return role, false, nil
			})

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), notifier, nil)

		_, err := svc.AddManager(context.Background(), "jdoe", service.AddManagerInput{Email: "new@example.com"})
		assert.NoError(t, err)
		assert.Empty(t, notifier.calls)
	})

	t.Run("unknown user fails", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(nil, domain.ErrAccountNotFound)

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddManager(context.Background(), "ghost", service.AddManagerInput{Email: "boss@example.com"})
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.EqualError(t, err, "no account with identifier: ghost")
	})

	t.Run("self management by account id fails", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByEmail(gomock.Any(), "jdoe@example.com").Return(user, nil)

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddManager(context.Background(), "jdoe", service.AddManagerInput{Email: "jdoe@example.com"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.EqualError(t, err, "user cannot be own manager")
	})

	t.Run("self management through own pending email fails", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		// The user's email exists as an identifier but the email lookup for
		// the manager side misses, e.g. when case differs at the directory.
		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByEmail(gomock.Any(), "JDoe@example.com").Return(nil, domain.ErrAccountNotFound)

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddManager(context.Background(), "jdoe", service.AddManagerInput{Email: "JDoe@example.com"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(mocks.NewMockAccountRepositoryIface(ctrl)), nil, nil)

		_, err := svc.AddManager(context.Background(), "jdoe", service.AddManagerInput{Email: "not-an-email"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAddReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &model.Account{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com"}
	manager := &model.Account{ID: uuid.New(), Username: "boss", Email: "boss@example.com"}

	t.Run("target by username under a registered manager", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByUsername(gomock.Any(), "boss").Return(manager, nil)
		roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				assert.Equal(t, user.ID, role.UserID)
				assert.Equal(t, manager.ID, *role.ManagerID)
				return role, true, nil
			})

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddReport(context.Background(), "boss", service.ReportTargetInput{Username: "jdoe"})
		assert.NoError(t, err)
	})

	t.Run("email preferred when both fields are present", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByEmail(gomock.Any(), "jdoe@example.com").Return(user, nil)
		accountRepo.EXPECT().FindByUsername(gomock.Any(), "boss").Return(manager, nil)
		roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				return role, true, nil
			})

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddReport(context.Background(), "boss", service.ReportTargetInput{
			Email:    "jdoe@example.com",
			Username: "someone-else",
		})
		assert.NoError(t, err)
	})

	t.Run("unknown manager email falls back to a pending role", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByEmail(gomock.Any(), "new@example.com").Return(nil, domain.ErrAccountNotFound)
		roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				assert.Equal(t, "new@example.com", *role.UnregisteredManagerEmail)
				return role, true, nil
			})

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddReport(context.Background(), "new@example.com", service.ReportTargetInput{Username: "jdoe"})
		assert.NoError(t, err)
	})

	t.Run("unknown manager username does not fall back", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(nil, domain.ErrAccountNotFound)

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddReport(context.Background(), "ghost", service.ReportTargetInput{Username: "jdoe"})
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.EqualError(t, err, "no account with identifier: ghost")
	})

	t.Run("unknown target fails before the manager is resolved", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByEmail(gomock.Any(), "missing@example.com").Return(nil, domain.ErrAccountNotFound)

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		_, err := svc.AddReport(context.Background(), "boss", service.ReportTargetInput{Email: "missing@example.com"})
		assert.EqualError(t, err, "no account with identifier: missing@example.com")
	})

	t.Run("missing identifier is rejected", func(t *testing.T) {
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(mocks.NewMockAccountRepositoryIface(ctrl)), nil, nil)

		_, err := svc.AddReport(context.Background(), "boss", service.ReportTargetInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.EqualError(t, err, "a username or email must be specified")
	})
}

func TestAddReports(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &model.Account{ID: uuid.New(), Username: "jdoe", Email: "jdoe@example.com"}
	manager := &model.Account{ID: uuid.New(), Username: "boss", Email: "boss@example.com"}

	t.Run("partial failure accumulates errors", func(t *testing.T) {
		accountRepo := mocks.NewMockAccountRepositoryIface(ctrl)
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)

		accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		accountRepo.EXPECT().FindByEmail(gomock.Any(), "missing@example.com").Return(nil, domain.ErrAccountNotFound)
		accountRepo.EXPECT().FindByUsername(gomock.Any(), "boss").Return(manager, nil)
		roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				return role, true, nil
			})

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(accountRepo), nil, nil)

		out, err := svc.AddReports(context.Background(), "boss", []service.ReportTargetInput{
			{Username: "jdoe"},
			{Email: "missing@example.com"},
		})
		assert.NoError(t, err)
		assert.Len(t, out.Results, 1)
		if assert.Len(t, out.Errors, 1) {
			assert.Equal(t, "no account with identifier: missing@example.com", out.Errors[0].Detail)
		}
	})

	t.Run("empty list is rejected outright", func(t *testing.T) {
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(mocks.NewMockAccountRepositoryIface(ctrl)), nil, nil)

		_, err := svc.AddReports(context.Background(), "boss", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("one malformed item rejects the whole batch", func(t *testing.T) {
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(mocks.NewMockAccountRepositoryIface(ctrl)), nil, nil)

		_, err := svc.AddReports(context.Background(), "boss", []service.ReportTargetInput{
			{Username: "jdoe"},
			{},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRemoveRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("remove reports forwards the filter", func(t *testing.T) {
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		roleRepo.EXPECT().DeleteReports(gomock.Any(), "boss", "jdoe@example.com").Return(int64(1), nil)

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(mocks.NewMockAccountRepositoryIface(ctrl)), nil, nil)
		assert.NoError(t, svc.RemoveReports(context.Background(), "boss", "jdoe@example.com"))
	})

	t.Run("matching nothing is still a success", func(t *testing.T) {
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		roleRepo.EXPECT().DeleteManagers(gomock.Any(), "jdoe", "").Return(int64(0), nil)

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(mocks.NewMockAccountRepositoryIface(ctrl)), nil, nil)
		assert.NoError(t, svc.RemoveManagers(context.Background(), "jdoe", ""))
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		roleRepo := mocks.NewMockManagerRoleRepositoryIface(ctrl)
		roleRepo.EXPECT().DeleteReports(gomock.Any(), "boss", "").Return(int64(0), errors.New("connection reset"))

		svc := service.NewManagerRoleService(roleRepo, service.NewIdentityResolver(mocks.NewMockAccountRepositoryIface(ctrl)), nil, nil)
		assert.Error(t, svc.RemoveReports(context.Background(), "boss", ""))
	})
}
