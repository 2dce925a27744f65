package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

// CreateMigrationStatus records a completed migration for a user. One row
// per user; a second insert is ErrAlreadyExists.
func (s *SQLiteStore) CreateMigrationStatus(ctx context.Context, status *models.MigrationStatus) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO migration_status (user_id, migration_id, migrated_at, profiles, settings, projects)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		status.UserID, status.MigrationID, status.MigratedAt,
		status.Profiles, status.Settings, status.Projects,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert migration status: %w", err)
	}
	return nil
}

// GetMigrationStatus retrieves the migration status for a user.
func (s *SQLiteStore) GetMigrationStatus(ctx context.Context, userID string) (*models.MigrationStatus, error) {
	st := &models.MigrationStatus{}
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, migration_id, migrated_at, profiles, settings, projects
		 FROM migration_status WHERE user_id = ?`, userID,
	).Scan(&st.UserID, &st.MigrationID, &st.MigratedAt, &st.Profiles, &st.Settings, &st.Projects)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}
	return st, nil
}

// DeleteMigration removes every record a migration wrote for a user and the
// status row itself, in one transaction. Project file records are removed
// before their projects so none is orphaned. Returns per-kind counts of what
// was removed.
func (s *SQLiteStore) DeleteMigration(ctx context.Context, userID, migrationID string) (*models.RollbackResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result := &models.RollbackResult{}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM project_files WHERE project_id IN
		 (SELECT id FROM projects WHERE user_id = ? AND migration_id = ?)`,
		userID, migrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete migrated project files: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM projects WHERE user_id = ? AND migration_id = ?", userID, migrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete migrated projects: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read delete result: %w", err)
	}
	result.Projects = int(n)

	res, err = tx.ExecContext(ctx,
		"DELETE FROM settings WHERE user_id = ? AND migration_id = ?", userID, migrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete migrated settings: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read delete result: %w", err)
	}
	result.Settings = int(n)

	res, err = tx.ExecContext(ctx,
		"DELETE FROM profiles WHERE user_id = ? AND migration_id = ?", userID, migrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete migrated profile: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read delete result: %w", err)
	}
	result.Profiles = int(n)

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM migration_status WHERE user_id = ? AND migration_id = ?", userID, migrationID); err != nil {
		return nil, fmt.Errorf("failed to delete migration status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}
