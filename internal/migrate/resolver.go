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

// Source tags where a dual-read was served from.
type Source string

const (
	// SourceTarget marks data read from the authoritative store.
	SourceTarget Source = "target"
	// SourceLegacy marks data served from the legacy store fallback.
	SourceLegacy Source = "legacy"
)

// ProfileRead is the result of a dual-read profile lookup. Exactly one of
// Target and Legacy is set, per Source.
type ProfileRead struct {
	Source Source                `json:"source"`
	Target *models.Profile       `json:"profile,omitempty"`
	Legacy *models.LegacyProfile `json:"legacyProfile,omitempty"`
}

// SettingsRead is the result of a dual-read settings lookup.
type SettingsRead struct {
	Source Source                 `json:"source"`
	Target *models.Settings       `json:"settings,omitempty"`
	Legacy *models.LegacySettings `json:"legacySettings,omitempty"`
}

// ProjectsRead is the result of a dual-read projects lookup.
type ProjectsRead struct {
	Source Source                 `json:"source"`
	Target []*models.Project      `json:"projects,omitempty"`
	Legacy []models.LegacyProject `json:"legacyProjects,omitempty"`
}

// Resolver implements the dual-read policy: prefer the authoritative store;
// on miss, fall back to the legacy store and trigger migration as a side
// effect so the next read is authoritative. The legacy-shaped data is
// returned to the caller whether or not that migration succeeds. Absent in
// both stores is storage.ErrNotFound, the explicit "new user, no data yet"
// signal, distinct from any lookup failure.
type Resolver struct {
	target storage.Store
	legacy storage.LegacyStore
	orch   *Orchestrator
}

// NewResolver creates a resolver reading target-first with legacy fallback,
// using orch for the migration side effect.
func NewResolver(target storage.Store, legacy storage.LegacyStore, orch *Orchestrator) *Resolver {
	return &Resolver{target: target, legacy: legacy, orch: orch}
}

// Profile resolves a user's profile.
func (r *Resolver) Profile(ctx context.Context, userID string) (*ProfileRead, error) {
	profile, err := r.target.GetProfile(ctx, userID)
	if err == nil {
		return &ProfileRead{Source: SourceTarget, Target: profile}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	legacy, err := r.legacy.GetLegacyProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read legacy profile: %w", err)
	}

	r.migrateFromLegacy(ctx, userID, KindProfile)
	return &ProfileRead{Source: SourceLegacy, Legacy: legacy}, nil
}

// Settings resolves a user's settings.
func (r *Resolver) Settings(ctx context.Context, userID string) (*SettingsRead, error) {
	settings, err := r.target.GetSettings(ctx, userID)
	if err == nil {
		return &SettingsRead{Source: SourceTarget, Target: settings}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	legacy, err := r.legacy.GetLegacySettings(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read legacy settings: %w", err)
	}

	r.migrateFromLegacy(ctx, userID, KindSettings)
	return &SettingsRead{Source: SourceLegacy, Legacy: legacy}, nil
}

// Projects resolves a user's projects. An empty target-store project list is
// a miss: a migrated user always has at least the migration status row, so
// the legacy fallback only fires for users who never migrated.
func (r *Resolver) Projects(ctx context.Context, userID string) (*ProjectsRead, error) {
	projects, err := r.target.ListProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) > 0 {
		return &ProjectsRead{Source: SourceTarget, Target: projects}, nil
	}
	// A migrated user with zero projects stays authoritative; only users
	// never migrated fall through to legacy.
	if _, err := r.target.GetMigrationStatus(ctx, userID); err == nil {
		return &ProjectsRead{Source: SourceTarget, Target: projects}, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	legacy, err := r.legacy.ListLegacyProjects(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to list legacy projects: %w", err)
	}
	if len(legacy) == 0 {
		return nil, storage.ErrNotFound
	}

	r.migrateFromLegacy(ctx, userID, KindProject)
	return &ProjectsRead{Source: SourceLegacy, Legacy: legacy}, nil
}

// migrateFromLegacy assembles a bundle from every legacy section present for
// userID and runs it through the orchestrator on the owner's behalf. Run
// synchronously so the side effect is observable to the caller's next read;
// failures are logged, never surfaced, because the legacy data has already
// been served.
func (r *Resolver) migrateFromLegacy(ctx context.Context, userID, kind string) {
	metrics.DualReadFallbacksTotal.WithLabelValues(kind).Inc()

	bundle := models.LegacyBundle{}
	if profile, err := r.legacy.GetLegacyProfile(ctx, userID); err == nil {
		bundle.Profile = profile
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Dual-read migration skipped", "user_id", userID, "error", err)
		return
	}
	if settings, err := r.legacy.GetLegacySettings(ctx, userID); err == nil {
		bundle.Settings = settings
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Dual-read migration skipped", "user_id", userID, "error", err)
		return
	}
	if projects, err := r.legacy.ListLegacyProjects(ctx, userID); err == nil {
		bundle.Projects = projects
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Dual-read migration skipped", "user_id", userID, "error", err)
		return
	}

	// The bundle never left the process, so it tags itself.
	tag, err := r.orch.Checksum(bundle)
	if err != nil {
		slog.Warn("Dual-read migration skipped", "user_id", userID, "error", err)
		return
	}

	result, err := r.orch.Migrate(ctx, auth.Identity{Subject: userID}, userID, bundle, tag)
	if err != nil {
		// ErrAlreadyMigrated here means a concurrent read won the race;
		// either way the user's data is on its way to the target store.
		slog.Warn("Dual-read migration failed", "user_id", userID, "error", err)
		return
	}
	slog.Info("Dual-read triggered migration",
		"user_id", userID,
		"migrated", result.Migrated,
		"failed", len(result.Errors),
	)
}
