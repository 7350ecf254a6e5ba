package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/model"
)

func TestListUserManagersEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	managerID := uuid.New()
	registered := &model.ManagerRole{
		ID:        uuid.New(),
		UserID:    userID,
		ManagerID: &managerID,
		Manager:   &model.Account{ID: managerID, Username: "boss", Email: "boss@example.com"},
	}
	pendingEmail := "pending@example.com"
	pending := &model.ManagerRole{
		ID:                       uuid.New(),
		UserID:                   userID,
		UnregisteredManagerEmail: &pendingEmail,
	}

	f := newRouterFixture(ctrl)
	f.roleRepo.EXPECT().
		ListByUserIdentifier(gomock.Any(), "jdoe").
		Return([]*model.ManagerRole{registered, pending}, nil)

	rec := f.do(http.MethodGet, "/api/users/jdoe/managers", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"email":"boss@example.com","username":"boss"},{"email":"pending@example.com","username":null}]`,
		rec.Body.String())
}

func TestAddManagerEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	managerID := uuid.New()
	user := &model.Account{ID: userID, Username: "jdoe", Email: "jdoe@example.com"}
	manager := &model.Account{ID: managerID, Username: "boss", Email: "boss@example.com"}

	t.Run("registered manager replies 201", func(t *testing.T) {
		f := newRouterFixture(ctrl)
		f.accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		f.accountRepo.EXPECT().FindByEmail(gomock.Any(), "boss@example.com").Return(manager, nil)
		f.roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				role.User = *user
				role.Manager = manager
				return role, true, nil
			})

		rec := f.do(http.MethodPost, "/api/users/jdoe/managers", `{"email": "boss@example.com"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"email":"boss@example.com","username":"boss"}`, rec.Body.String())
	})

	t.Run("unregistered manager replies 201 with a null username", func(t *testing.T) {
		f := newRouterFixture(ctrl)
		f.accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		f.accountRepo.EXPECT().FindByEmail(gomock.Any(), "new@example.com").Return(nil, domain.ErrAccountNotFound)
		f.roleRepo.EXPECT().
			GetOrCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, role *model.ManagerRole) (*model.ManagerRole, bool, error) {
				role.User = *user
				return role, true, nil
			})

		rec := f.do(http.MethodPost, "/api/users/jdoe/managers", `{"email": "new@example.com"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"email":"new@example.com","username":null}`, rec.Body.String())
	})

	t.Run("unknown user replies 404", func(t *testing.T) {
		f := newRouterFixture(ctrl)
		f.accountRepo.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(nil, domain.ErrAccountNotFound)

		rec := f.do(http.MethodPost, "/api/users/ghost/managers", `{"email": "boss@example.com"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail": "no account with identifier: ghost"}`, rec.Body.String())
	})

	t.Run("self management replies 400", func(t *testing.T) {
		f := newRouterFixture(ctrl)
		f.accountRepo.EXPECT().FindByUsername(gomock.Any(), "jdoe").Return(user, nil)
		f.accountRepo.EXPECT().FindByEmail(gomock.Any(), "jdoe@example.com").Return(user, nil)

		rec := f.do(http.MethodPost, "/api/users/jdoe/managers", `{"email": "jdoe@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail": "user cannot be own manager"}`, rec.Body.String())
	})

	t.Run("missing email replies 400", func(t *testing.T) {
		f := newRouterFixture(ctrl)

		rec := f.do(http.MethodPost, "/api/users/jdoe/managers", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRemoveManagersEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("bulk removal replies 204", func(t *testing.T) {
		f := newRouterFixture(ctrl)
		f.roleRepo.EXPECT().DeleteManagers(gomock.Any(), "jdoe", "").Return(int64(2), nil)

		rec := f.do(http.MethodDelete, "/api/users/jdoe/managers", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("manager filter narrows the removal", func(t *testing.T) {
		f := newRouterFixture(ctrl)
		f.roleRepo.EXPECT().DeleteManagers(gomock.Any(), "jdoe", "boss@example.com").Return(int64(1), nil)

		rec := f.do(http.MethodDelete, "/api/users/jdoe/managers?manager=boss@example.com", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
