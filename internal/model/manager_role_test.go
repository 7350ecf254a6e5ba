package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/model"
)

func strptr(s string) *string { return &s }

func TestManagerEmail(t *testing.T) {
	managerID := uuid.New()

	registered := &model.ManagerRole{
		ManagerID: &managerID,
		Manager:   &model.Account{ID: managerID, Username: "boss", Email: "boss@example.com"},
	}
	assert.Equal(t, "boss@example.com", registered.ManagerEmail())
	assert.Equal(t, "boss", *registered.ManagerUsername())

	pending := &model.ManagerRole{UnregisteredManagerEmail: strptr("pending@example.com")}
	assert.Equal(t, "pending@example.com", pending.ManagerEmail())
	assert.Nil(t, pending.ManagerUsername())
}

func TestBeforeSaveInvariants(t *testing.T) {
	userID := uuid.New()

	t.Run("a role without a target is rejected", func(t *testing.T) {
		role := &model.ManagerRole{UserID: userID}
		err := role.BeforeSave(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.EqualError(t, err, domain.ErrManagerTargetless.Error())
	})

	t.Run("a role with both targets is rejected", func(t *testing.T) {
		managerID := uuid.New()
		role := &model.ManagerRole{
			UserID:                   userID,
			ManagerID:                &managerID,
			UnregisteredManagerEmail: strptr("pending@example.com"),
		}
		assert.ErrorIs(t, role.BeforeSave(nil), domain.ErrInvalidInput)
	})

	t.Run("an account managing itself is rejected", func(t *testing.T) {
		role := &model.ManagerRole{UserID: userID, ManagerID: &userID}
		err := role.BeforeSave(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.EqualError(t, err, domain.ErrSelfManager.Error())
	})
}
