package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/anmolsh/blockbridge/internal/checksum"
	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
	"github.com/anmolsh/blockbridge/internal/storage/sqlite"
)

func setupResolver(t *testing.T) (*Resolver, *sqlite.SQLiteStore) {
	t.Helper()
	store := setupStore(t)
	orch := NewOrchestrator(store, checksum.Default())
	return NewResolver(store, store, orch), store
}

func TestResolverPrefersTarget(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	if err := store.CreateProfile(ctx, &models.Profile{
		UserID: "user-1",
		Email:  "alice@example.com",
		Name:   "Alice",
	}); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	// A legacy record also exists but must not be consulted.
	if err := store.SeedLegacy(ctx, "user-1", models.LegacyBundle{
		Profile: &models.LegacyProfile{Email: "stale@example.com", DisplayName: "Stale Alice"},
	}); err != nil {
		t.Fatalf("SeedLegacy failed: %v", err)
	}

	read, err := resolver.Profile(ctx, "user-1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if read.Source != SourceTarget {
		t.Errorf("Source = %q, want %q", read.Source, SourceTarget)
	}
	if read.Target == nil || read.Target.Email != "alice@example.com" {
		t.Errorf("Target = %+v", read.Target)
	}
	if read.Legacy != nil {
		t.Errorf("legacy record leaked into a target read: %+v", read.Legacy)
	}
}

func TestResolverFallsBackAndMigrates(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	username := "alice"
	if err := store.SeedLegacy(ctx, "user-1", models.LegacyBundle{
		Profile: &models.LegacyProfile{
			Email:       "alice@example.com",
			DisplayName: "Alice",
			Username:    &username,
		},
		Settings: &models.LegacySettings{Tutorial: map[string]bool{"loops": true}},
		Projects: []models.LegacyProject{
			{ID: "legacy-1", Name: "Blink", Workspace: validWorkspace},
		},
	}); err != nil {
		t.Fatalf("SeedLegacy failed: %v", err)
	}

	// The read is served from legacy...
	read, err := resolver.Profile(ctx, "user-1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if read.Source != SourceLegacy {
		t.Fatalf("Source = %q, want %q", read.Source, SourceLegacy)
	}
	if read.Legacy == nil || read.Legacy.DisplayName != "Alice" {
		t.Errorf("Legacy = %+v", read.Legacy)
	}

	// ...and the migration side effect is observable without a separate call:
	// every legacy section is now in the target store.
	profile, err := store.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("migration side effect missing: %v", err)
	}
	if profile.Username != "alice" {
		t.Errorf("migrated profile = %+v", profile)
	}
	if _, err := store.GetSettings(ctx, "user-1"); err != nil {
		t.Errorf("settings not migrated: %v", err)
	}
	projects, err := store.ListProjects(ctx, "user-1")
	if err != nil || len(projects) != 1 {
		t.Errorf("projects not migrated: %v, %v", projects, err)
	}
	if _, err := store.GetMigrationStatus(ctx, "user-1"); err != nil {
		t.Errorf("migration status not recorded: %v", err)
	}

	// The next read is authoritative.
	read, err = resolver.Profile(ctx, "user-1")
	if err != nil {
		t.Fatalf("second Profile failed: %v", err)
	}
	if read.Source != SourceTarget {
		t.Errorf("second read Source = %q, want %q", read.Source, SourceTarget)
	}
}

func TestResolverLegacyDataServedEvenWhenMigrationPartiallyFails(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	// The legacy projects include one that cannot pass validation; the
	// fallback must still serve them all.
	if err := store.SeedLegacy(ctx, "user-1", models.LegacyBundle{
		Projects: []models.LegacyProject{
			{ID: "legacy-ok", Name: "Good", Workspace: validWorkspace},
			{ID: "legacy-bad", Name: "Bad", Workspace: "<broken"},
		},
	}); err != nil {
		t.Fatalf("SeedLegacy failed: %v", err)
	}

	read, err := resolver.Projects(ctx, "user-1")
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if read.Source != SourceLegacy {
		t.Fatalf("Source = %q, want %q", read.Source, SourceLegacy)
	}
	if len(read.Legacy) != 2 {
		t.Errorf("served %d legacy projects, want 2", len(read.Legacy))
	}

	// Only the valid project migrated; the caller still got both.
	projects, err := store.ListProjects(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 1 || projects[0].LegacyID != "legacy-ok" {
		t.Errorf("migrated projects = %v", projects)
	}
}

func TestResolverNotFoundInBothStores(t *testing.T) {
	resolver, _ := setupResolver(t)
	ctx := context.Background()

	if _, err := resolver.Profile(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Profile: expected ErrNotFound, got %v", err)
	}
	if _, err := resolver.Settings(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Settings: expected ErrNotFound, got %v", err)
	}
	if _, err := resolver.Projects(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Projects: expected ErrNotFound, got %v", err)
	}
}

func TestResolverMigratedUserWithNoProjectsStaysAuthoritative(t *testing.T) {
	resolver, store := setupResolver(t)
	ctx := context.Background()

	orch := NewOrchestrator(store, checksum.Default())
	bundle := models.LegacyBundle{
		Settings: &models.LegacySettings{},
	}
	if _, err := orch.Migrate(ctx, owner("user-1"), "user-1", bundle, mustTag(t, orch, bundle)); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	// Stale legacy projects still exist but must not be served.
	if err := store.SeedLegacy(ctx, "user-1", models.LegacyBundle{
		Projects: []models.LegacyProject{{ID: "legacy-1", Name: "Old", Workspace: validWorkspace}},
	}); err != nil {
		t.Fatalf("SeedLegacy failed: %v", err)
	}

	read, err := resolver.Projects(ctx, "user-1")
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if read.Source != SourceTarget {
		t.Errorf("Source = %q, want %q", read.Source, SourceTarget)
	}
	if len(read.Target) != 0 || len(read.Legacy) != 0 {
		t.Errorf("read = %+v, want empty authoritative result", read)
	}
}
