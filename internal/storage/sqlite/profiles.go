package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

// usernameTaken reports whether username is held by a profile other than
// ownerID. Empty usernames are never taken.
func (s *SQLiteStore) usernameTaken(ctx context.Context, username, ownerID string) (bool, error) {
	if username == "" {
		return false, nil
	}
	var holder string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id FROM profiles WHERE username = ? AND user_id != ?",
		username, ownerID,
	).Scan(&holder)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return true, nil
}

// CreateProfile inserts a new profile row.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if taken, err := s.usernameTaken(ctx, profile.Username, profile.UserID); err != nil {
		return err
	} else if taken {
		return storage.ErrUsernameTaken
	}

	now := time.Now().Unix()
	if profile.CreatedAt == 0 {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt == 0 {
		profile.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, email, name, profile_image, username, bio, location, website, is_public, migration_id, last_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID, profile.Email, profile.Name, profile.ProfileImage,
		nullableString(profile.Username), profile.Bio, profile.Location, profile.Website,
		boolToInt(profile.IsPublic), profile.MigrationID, profile.LastLogin,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by owner id.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p := &models.Profile{}
	var username sql.NullString
	var isPublic int
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email, name, profile_image, username, bio, location, website, is_public, migration_id, last_login, created_at, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Email, &p.Name, &p.ProfileImage, &username, &p.Bio,
		&p.Location, &p.Website, &isPublic, &p.MigrationID, &p.LastLogin,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Username = username.String
	p.IsPublic = isPublic != 0
	return p, nil
}

// UpdateProfile replaces an existing profile row. The owner may keep their
// own username; only a username held by someone else is rejected.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	if taken, err := s.usernameTaken(ctx, profile.Username, profile.UserID); err != nil {
		return err
	} else if taken {
		return storage.ErrUsernameTaken
	}

	profile.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET email = ?, name = ?, profile_image = ?, username = ?, bio = ?, location = ?, website = ?, is_public = ?, last_login = ?, updated_at = ?
		 WHERE user_id = ?`,
		profile.Email, profile.Name, profile.ProfileImage, nullableString(profile.Username),
		profile.Bio, profile.Location, profile.Website, boolToInt(profile.IsPublic),
		profile.LastLogin, profile.UpdatedAt, profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
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
