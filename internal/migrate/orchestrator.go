// Package migrate implements the migration core: the orchestrator that moves
// a user's legacy bundle into the authoritative store, the dual-read resolver
// that serves users whose migration has not run yet, and migration rollback.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anmolsh/blockbridge/internal/auth"
	"github.com/anmolsh/blockbridge/internal/checksum"
	"github.com/anmolsh/blockbridge/internal/metrics"
	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
	"github.com/anmolsh/blockbridge/internal/transform"
)

// Gating errors. Each fails the whole call before any write; per-resource
// failures are reported inside MigrationResult.Errors instead.
var (
	ErrUnauthorized     = errors.New("caller is not authorized for this operation")
	ErrChecksumMismatch = errors.New("bundle checksum mismatch")
	ErrAlreadyMigrated  = errors.New("user data already migrated")
)

// Sub-resource kinds, used as error prefixes and metric labels.
const (
	KindSettings = "settings"
	KindProfile  = "profile"
	KindProject  = "project"
)

// Orchestrator verifies, transforms and writes legacy bundles. Writes are
// per-resource atomic: one failed sub-resource never aborts the rest, and the
// caller gets an aggregate result describing exactly what happened.
type Orchestrator struct {
	store storage.Store
	sums  checksum.Strategy
	now   func() time.Time
}

// NewOrchestrator creates an orchestrator writing to store and verifying
// bundles with sums. A nil strategy selects the default.
func NewOrchestrator(store storage.Store, sums checksum.Strategy) *Orchestrator {
	if sums == nil {
		sums = checksum.Default()
	}
	return &Orchestrator{store: store, sums: sums, now: time.Now}
}

// Migrate moves the bundle's sub-resources into the authoritative store for
// userID.
//
// Three gates run before any write, in order: the caller's verified identity
// must match userID (ErrUnauthorized), the recomputed bundle checksum must
// match tag (ErrChecksumMismatch), and the user must not have a recorded
// migration (ErrAlreadyMigrated). Past the gates, each present section is
// transformed and written independently; failures are collected into the
// result's Errors and never abort the remaining sections. A status row is
// recorded once at least one section succeeded, which blocks re-migration
// for the user wholesale.
func (o *Orchestrator) Migrate(ctx context.Context, caller auth.Identity, userID string, bundle models.LegacyBundle, tag string) (*models.MigrationResult, error) {
	if caller.IsZero() || caller.Subject != userID {
		metrics.MigrationsTotal.WithLabelValues(metrics.OutcomeDenied).Inc()
		return nil, ErrUnauthorized
	}

	computed, err := checksum.Tag(o.sums, bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum bundle: %w", err)
	}
	if computed != tag {
		metrics.MigrationsTotal.WithLabelValues(metrics.OutcomeChecksum).Inc()
		return nil, fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, computed, tag)
	}

	if _, err := o.store.GetMigrationStatus(ctx, userID); err == nil {
		metrics.MigrationsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return nil, ErrAlreadyMigrated
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	migrationID := uuid.New().String()
	now := o.now()
	result := &models.MigrationResult{Errors: []string{}}
	status := &models.MigrationStatus{
		UserID:      userID,
		MigrationID: migrationID,
		MigratedAt:  now.Unix(),
	}

	// Sections run in a fixed order (settings, profile, projects in input
	// order) so results are deterministic.
	if bundle.Settings != nil {
		settings := transform.Settings(userID, *bundle.Settings, now)
		settings.MigrationID = migrationID
		if err := o.store.CreateSettings(ctx, settings); err != nil {
			o.recordFailure(result, KindSettings, "Settings migration failed", err)
		} else {
			o.recordSuccess(result, KindSettings)
			status.Settings++
		}
	}

	if bundle.Profile != nil {
		profile := transform.Profile(userID, *bundle.Profile, now)
		profile.MigrationID = migrationID
		if err := o.store.CreateProfile(ctx, profile); err != nil {
			o.recordFailure(result, KindProfile, "Profile migration failed", err)
		} else {
			o.recordSuccess(result, KindProfile)
			status.Profiles++
		}
	}

	for _, legacy := range bundle.Projects {
		project, err := transform.Project(userID, legacy, now)
		if err != nil {
			o.recordFailure(result, KindProject, "Project migration failed", err)
			continue
		}
		project.MigrationID = migrationID
		if err := o.store.CreateProject(ctx, project); err != nil {
			o.recordFailure(result, KindProject, "Project migration failed", err)
			continue
		}
		o.recordSuccess(result, KindProject)
		status.Projects++
	}

	// No status row when everything failed: the user can fix the bundle and
	// retry. Any success locks the user behind the duplicate guard.
	if result.Migrated > 0 {
		if err := o.store.CreateMigrationStatus(ctx, status); err != nil {
			metrics.MigrationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			return result, fmt.Errorf("failed to record migration status: %w", err)
		}
	}

	switch {
	case len(result.Errors) == 0:
		metrics.MigrationsTotal.WithLabelValues(metrics.OutcomeComplete).Inc()
	case result.Migrated > 0:
		metrics.MigrationsTotal.WithLabelValues(metrics.OutcomePartial).Inc()
	default:
		metrics.MigrationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	}

	slog.Info("Migration completed",
		"user_id", userID,
		"migration_id", migrationID,
		"migrated", result.Migrated,
		"failed", len(result.Errors),
	)
	return result, nil
}

func (o *Orchestrator) recordSuccess(result *models.MigrationResult, kind string) {
	result.Migrated++
	metrics.ResourcesMigratedTotal.WithLabelValues(kind).Inc()
}

func (o *Orchestrator) recordFailure(result *models.MigrationResult, kind, prefix string, err error) {
	result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", prefix, err))
	metrics.MigrationErrorsTotal.WithLabelValues(kind).Inc()
	slog.Warn("Sub-resource migration failed", "kind", kind, "error", err)
}

// Status returns the persisted migration status for userID, or
// storage.ErrNotFound if the user has never been migrated.
func (o *Orchestrator) Status(ctx context.Context, userID string) (*models.MigrationStatus, error) {
	return o.store.GetMigrationStatus(ctx, userID)
}

// Checksum computes the tag the orchestrator would expect for bundle. Kept
// for callers that build bundles themselves (the resolver, import tooling,
// previews).
func (o *Orchestrator) Checksum(bundle models.LegacyBundle) (string, error) {
	return checksum.Tag(o.sums, bundle)
}
