package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

// CreateSettings inserts a new settings row.
func (s *SQLiteStore) CreateSettings(ctx context.Context, settings *models.Settings) error {
	tutorial, err := marshalJSONColumn(settings.TutorialCompleted)
	if err != nil {
		return err
	}
	if settings.UpdatedAt == 0 {
		settings.UpdatedAt = time.Now().Unix()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (user_id, board_type, theme, language, auto_save, tutorial_completed, migration_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settings.UserID, settings.BoardType, settings.Theme, settings.Language,
		boolToInt(settings.AutoSave), tutorial, settings.MigrationID, settings.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert settings: %w", err)
	}
	return nil
}

// GetSettings retrieves the settings row for a user.
func (s *SQLiteStore) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	st := &models.Settings{}
	var autoSave int
	var tutorial string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, board_type, theme, language, auto_save, tutorial_completed, migration_id, updated_at
		 FROM settings WHERE user_id = ?`, userID,
	).Scan(&st.UserID, &st.BoardType, &st.Theme, &st.Language, &autoSave, &tutorial, &st.MigrationID, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	st.AutoSave = autoSave != 0
	st.TutorialCompleted = map[string]bool{}
	if err := unmarshalJSONColumn(tutorial, &st.TutorialCompleted); err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateSettings replaces an existing settings row.
func (s *SQLiteStore) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	tutorial, err := marshalJSONColumn(settings.TutorialCompleted)
	if err != nil {
		return err
	}
	settings.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE settings SET board_type = ?, theme = ?, language = ?, auto_save = ?, tutorial_completed = ?, updated_at = ?
		 WHERE user_id = ?`,
		settings.BoardType, settings.Theme, settings.Language, boolToInt(settings.AutoSave),
		tutorial, settings.UpdatedAt, settings.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
