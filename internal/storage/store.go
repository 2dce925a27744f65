// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/anmolsh/blockbridge/internal/models"
)

// Sentinel errors shared by all store implementations. Callers distinguish
// "no data yet" from real lookup failures with errors.Is(err, ErrNotFound).
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUsernameTaken = errors.New("username already taken")
)

// Store defines the interface for the authoritative (target) store.
// Each call is individually atomic and durable; the migration layer relies
// on exactly that and never on cross-call transactions.
type Store interface {
	// CreateProfile inserts a user's profile. Fails with ErrAlreadyExists if
	// the user already has one, or ErrUsernameTaken if the username is held
	// by another user.
	CreateProfile(ctx context.Context, profile *models.Profile) error

	// GetProfile returns the profile for userID, or ErrNotFound.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// UpdateProfile patches an existing profile. Username uniqueness is
	// enforced excluding the owner's own prior record.
	UpdateProfile(ctx context.Context, profile *models.Profile) error

	// CreateSettings inserts a user's settings record. Fails with
	// ErrAlreadyExists if one is present.
	CreateSettings(ctx context.Context, settings *models.Settings) error

	// GetSettings returns the settings for userID, or ErrNotFound. Callers
	// wanting the implicit default record use models.DefaultSettings.
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)

	// UpdateSettings replaces an existing settings record.
	UpdateSettings(ctx context.Context, settings *models.Settings) error

	// CreateProject inserts a project and its workspace integrity record.
	// The project.ID field is populated by the store when empty.
	CreateProject(ctx context.Context, project *models.Project) error

	// GetProject returns a project by id, or ErrNotFound.
	GetProject(ctx context.Context, projectID string) (*models.Project, error)

	// ListProjects returns all projects owned by userID, in creation order.
	ListProjects(ctx context.Context, userID string) ([]*models.Project, error)

	// UpdateProject replaces an existing project. When the workspace content
	// changed, the project's ProjectFile record is replaced in the same call.
	UpdateProject(ctx context.Context, project *models.Project) error

	// DeleteProject removes a project. Its ProjectFile records go first, so
	// no file record is ever orphaned.
	DeleteProject(ctx context.Context, projectID string) error

	// GetProjectFile returns the integrity record for a project's workspace
	// document, or ErrNotFound.
	GetProjectFile(ctx context.Context, projectID string) (*models.ProjectFile, error)

	// CreateMigrationStatus records a completed migration for a user. Fails
	// with ErrAlreadyExists if a status row already exists.
	CreateMigrationStatus(ctx context.Context, status *models.MigrationStatus) error

	// GetMigrationStatus returns the migration status for userID, or
	// ErrNotFound if the user has never been migrated.
	GetMigrationStatus(ctx context.Context, userID string) (*models.MigrationStatus, error)

	// DeleteMigration removes every record attributed to migrationID for
	// userID (project files first, then projects, settings, profile, status)
	// and reports per-kind counts.
	DeleteMigration(ctx context.Context, userID, migrationID string) (*models.RollbackResult, error)

	// Close releases any resources held by the store.
	Close() error
}

// LegacyStore is the read-only view of the old store used by the dual-read
// fallback path. Absence is ErrNotFound, same as Store.
type LegacyStore interface {
	GetLegacyProfile(ctx context.Context, userID string) (*models.LegacyProfile, error)
	GetLegacySettings(ctx context.Context, userID string) (*models.LegacySettings, error)
	ListLegacyProjects(ctx context.Context, userID string) ([]models.LegacyProject, error)
}

// UserStore persists identity-provider accounts.
type UserStore interface {
	// CreateUser inserts a new account. The user.ID field is populated by
	// the store when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns the account for email, or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns the account for id, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
