// internal/reactor/upgrade.go
package reactor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teamlattice/lattice/internal/audit"
	"github.com/teamlattice/lattice/internal/event"
	"github.com/teamlattice/lattice/internal/repository"
)

// UpgradeReactor rewrites manager roles that only carry an unregistered
// manager email into proper account references once a matching account
// registers. It is the only writer that touches manager_id and
// unregistered_manager_email after a role has been created.
type UpgradeReactor struct {
	roles   repository.ManagerRoleRepositoryIface
	auditor audit.Logger
}

func NewUpgradeReactor(roles repository.ManagerRoleRepositoryIface, auditor audit.Logger) *UpgradeReactor {
	if auditor == nil {
		auditor = &audit.NoOpLogger{}
	}
	return &UpgradeReactor{roles: roles, auditor: auditor}
}

// Register wires the reactor against the account-created event source.
// Called once during process initialization.
func (r *UpgradeReactor) Register(bus *event.Bus) {
	bus.SubscribeAccountCreated(r.HandleAccountCreated)
}

// HandleAccountCreated upgrades every role pending on the new account's
// email with a single conditional update. Zero matches is a no-op.
func (r *UpgradeReactor) HandleAccountCreated(ctx context.Context, ev event.AccountCreated) error {
	affected, err := r.roles.UpgradeUnregistered(ctx, ev.AccountID, ev.Email)
	if err != nil {
		return fmt.Errorf("upgrading manager roles for %s: %w", ev.Email, err)
	}

	if affected > 0 {
		slog.InfoContext(ctx, "upgraded unregistered manager roles",
			"email", ev.Email, "account_id", ev.AccountID, "affected", affected)
		_ = r.auditor.LogRoleUpgrade(ctx, ev.Email, affected)
	}
	return nil
}
