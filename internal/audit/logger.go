package audit

import (
	"context"
	"log/slog"

	"github.com/teamlattice/lattice/internal/model"
)

// Logger defines the interface for auditing relationship mutations
type Logger interface {
	// LogRoleCreate logs the creation of a manager relationship
	LogRoleCreate(ctx context.Context, role *model.ManagerRole) error

	// LogRoleDelete logs the removal of manager relationships matching
	// the given filters
	LogRoleDelete(ctx context.Context, subjectIdentifier, counterpartIdentifier string, affected int64) error

	// LogRoleUpgrade logs the rewrite of pending-email roles to a
	// registered manager account
	LogRoleUpgrade(ctx context.Context, email string, affected int64) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

// LogRoleCreate implements Logger.LogRoleCreate
func (l *NoOpLogger) LogRoleCreate(ctx context.Context, role *model.ManagerRole) error {
	return nil
}

// LogRoleDelete implements Logger.LogRoleDelete
func (l *NoOpLogger) LogRoleDelete(ctx context.Context, subjectIdentifier, counterpartIdentifier string, affected int64) error {
	return nil
}

// LogRoleUpgrade implements Logger.LogRoleUpgrade
func (l *NoOpLogger) LogRoleUpgrade(ctx context.Context, email string, affected int64) error {
	return nil
}

// SlogLogger writes audit entries to the process log.
type SlogLogger struct {
	log *slog.Logger
}

func NewSlogLogger(log *slog.Logger) *SlogLogger {
	return &SlogLogger{log: log}
}

// LogRoleCreate implements Logger.LogRoleCreate
func (l *SlogLogger) LogRoleCreate(ctx context.Context, role *model.ManagerRole) error {
	l.log.InfoContext(ctx, "manager role created",
		"role_id", role.ID,
		"user_id", role.UserID,
		"manager_id", role.ManagerID,
		"unregistered_manager_email", role.UnregisteredManagerEmail,
	)
	return nil
}

// LogRoleDelete implements Logger.LogRoleDelete
func (l *SlogLogger) LogRoleDelete(ctx context.Context, subjectIdentifier, counterpartIdentifier string, affected int64) error {
	l.log.InfoContext(ctx, "manager roles deleted",
		"subject", subjectIdentifier,
		"counterpart", counterpartIdentifier,
		"affected", affected,
	)
	return nil
}

// LogRoleUpgrade implements Logger.LogRoleUpgrade
func (l *SlogLogger) LogRoleUpgrade(ctx context.Context, email string, affected int64) error {
	l.log.InfoContext(ctx, "unregistered manager roles upgraded",
		"email", email,
		"affected", affected,
	)
	return nil
}
