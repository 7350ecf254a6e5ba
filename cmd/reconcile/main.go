// cmd/reconcile/main.go
//
// Sweeps relationship records whose unregistered manager email matches a
// registered account and upgrades them. The upgrade reactor handles this
// in-line for every account-created event; this job is the safety net for
// events that were missed (consumer downtime, accounts imported out of
// band).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamlattice/lattice/internal/config"
	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/repository"
)

func main() {
	// Command line flags
	var (
		dryRun  = flag.Bool("dry-run", false, "Print what would be done without making changes")
		timeout = flag.Duration("timeout", 10*time.Minute, "Maximum time to run reconciliation")
	)
	flag.Parse()

	// Initialize logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slogger := slog.New(logHandler)
	slog.SetDefault(slogger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		slogger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	accountRepo := repository.NewAccountRepository(db)
	roleRepo := repository.NewManagerRoleRepository(db)

	projections, err := roleRepo.DistinctManagers(ctx)
	if err != nil {
		slogger.Error("failed to list distinct managers", "error", err)
		os.Exit(1)
	}

	var upgraded int64
	for _, p := range projections {
		if p.UnregisteredManagerEmail == nil {
			continue
		}
		pending := *p.UnregisteredManagerEmail

		account, err := accountRepo.FindByEmail(ctx, pending)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				continue
			}
			slogger.Error("account lookup failed", "email", pending, "error", err)
			os.Exit(1)
		}

		if *dryRun {
			slogger.Info("would upgrade pending manager roles",
				"email", pending, "account_id", account.ID)
			continue
		}

		affected, err := roleRepo.UpgradeUnregistered(ctx, account.ID, pending)
		if err != nil {
			slogger.Error("upgrade failed", "email", pending, "error", err)
			os.Exit(1)
		}
		upgraded += affected
		slogger.Info("upgraded pending manager roles",
			"email", pending, "account_id", account.ID, "affected", affected)
	}

	slogger.Info("reconciliation complete", "upgraded", upgraded, "dry_run", *dryRun)
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}
