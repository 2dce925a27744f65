package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

// Legacy records are stored as the raw JSON exported from the old store, one
// row per user and section. The dual-read path reads them; nothing in this
// codebase writes them except SeedLegacy, which exists for imports and tests.

// GetLegacyProfile retrieves a user's legacy profile record.
func (s *SQLiteStore) GetLegacyProfile(ctx context.Context, userID string) (*models.LegacyProfile, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM legacy_profiles WHERE user_id = ?", userID).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy profile: %w", err)
	}
	p := &models.LegacyProfile{}
	if err := unmarshalJSONColumn(record, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetLegacySettings retrieves a user's legacy settings record.
func (s *SQLiteStore) GetLegacySettings(ctx context.Context, userID string) (*models.LegacySettings, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM legacy_settings WHERE user_id = ?", userID).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy settings: %w", err)
	}
	st := &models.LegacySettings{}
	if err := unmarshalJSONColumn(record, st); err != nil {
		return nil, err
	}
	return st, nil
}

// ListLegacyProjects retrieves a user's legacy project records in their
// original export order.
func (s *SQLiteStore) ListLegacyProjects(ctx context.Context, userID string) ([]models.LegacyProject, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT record FROM legacy_projects WHERE user_id = ? ORDER BY position, id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy projects: %w", err)
	}
	defer rows.Close()

	var projects []models.LegacyProject
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan legacy project: %w", err)
		}
		p := models.LegacyProject{}
		if err := unmarshalJSONColumn(record, &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate legacy projects: %w", err)
	}
	return projects, nil
}

// SeedLegacy loads a user's exported bundle into the legacy tables. Used by
// the import tooling and by tests that exercise the dual-read fallback.
func (s *SQLiteStore) SeedLegacy(ctx context.Context, userID string, bundle models.LegacyBundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if bundle.Profile != nil {
		record, err := marshalJSONColumn(bundle.Profile)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO legacy_profiles (user_id, record) VALUES (?, ?)",
			userID, record); err != nil {
			return fmt.Errorf("failed to seed legacy profile: %w", err)
		}
	}
	if bundle.Settings != nil {
		record, err := marshalJSONColumn(bundle.Settings)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO legacy_settings (user_id, record) VALUES (?, ?)",
			userID, record); err != nil {
			return fmt.Errorf("failed to seed legacy settings: %w", err)
		}
	}
	for i, project := range bundle.Projects {
		record, err := marshalJSONColumn(project)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO legacy_projects (id, user_id, position, record) VALUES (?, ?, ?, ?)",
			project.ID, userID, i, record); err != nil {
			return fmt.Errorf("failed to seed legacy project: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
