package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anmolsh/blockbridge/internal/auth"
	"github.com/anmolsh/blockbridge/internal/metrics"
	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

// Rollback reverses a previously applied migration for userID. The caller
// must hold the elevated admin capability; plain ownership is not enough, so
// a user cannot roll back their own migration. The capability check runs
// before any data is touched.
//
// migrationID must match the user's recorded migration; a stale or unknown
// id is storage.ErrNotFound. Removal order inside the store is project files,
// projects, settings, profile, then the status row, which re-opens the
// duplicate guard for the user.
func (o *Orchestrator) Rollback(ctx context.Context, caller auth.Identity, userID, migrationID string) (*models.RollbackResult, error) {
	if caller.IsZero() || !caller.Admin {
		return nil, fmt.Errorf("%w: rollback requires admin capability", ErrUnauthorized)
	}

	status, err := o.store.GetMigrationStatus(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("no migration recorded for user %s: %w", userID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}
	if status.MigrationID != migrationID {
		return nil, fmt.Errorf("migration %s not found for user %s: %w", migrationID, userID, storage.ErrNotFound)
	}

	result, err := o.store.DeleteMigration(ctx, userID, migrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to roll back migration: %w", err)
	}

	metrics.RollbacksTotal.Inc()
	slog.Info("Migration rolled back",
		"user_id", userID,
		"migration_id", migrationID,
		"admin", caller.Subject,
		"profiles", result.Profiles,
		"settings", result.Settings,
		"projects", result.Projects,
	)
	return result, nil
}
