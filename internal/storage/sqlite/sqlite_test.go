package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anmolsh/blockbridge/internal/checksum"
	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "blockbridge-sqlite-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"), checksum.Default())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testProject(userID, name, workspace string) *models.Project {
	return &models.Project{
		UserID:    userID,
		Name:      name,
		Workspace: workspace,
		BoardType: models.BoardUno,
		Tags:      []string{"test"},
	}
}

func TestProfileUsernameUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := &models.Profile{UserID: "user-a", Email: "a@example.com", Name: "A", Username: "alice"}
	if err := store.CreateProfile(ctx, alice); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	t.Run("another user cannot take the username", func(t *testing.T) {
		bob := &models.Profile{UserID: "user-b", Email: "b@example.com", Name: "B", Username: "alice"}
		if err := store.CreateProfile(ctx, bob); !errors.Is(err, storage.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("owner can keep their own username on update", func(t *testing.T) {
		alice.Bio = "Updated bio"
		if err := store.UpdateProfile(ctx, alice); err != nil {
			t.Errorf("UpdateProfile failed: %v", err)
		}
	})

	t.Run("owner cannot steal a username via update", func(t *testing.T) {
		carol := &models.Profile{UserID: "user-c", Email: "c@example.com", Name: "C"}
		if err := store.CreateProfile(ctx, carol); err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
		carol.Username = "alice"
		if err := store.UpdateProfile(ctx, carol); !errors.Is(err, storage.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("empty usernames never collide", func(t *testing.T) {
		for _, id := range []string{"user-d", "user-e"} {
			p := &models.Profile{UserID: id, Email: id + "@example.com", Name: id}
			if err := store.CreateProfile(ctx, p); err != nil {
				t.Errorf("CreateProfile(%s) failed: %v", id, err)
			}
		}
	})

	t.Run("duplicate profile for same user rejected", func(t *testing.T) {
		dup := &models.Profile{UserID: "user-a", Email: "a@example.com", Name: "A again"}
		if err := store.CreateProfile(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestProjectFileLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sums := checksum.Default()

	workspaceV1 := `<xml><block type="io_digitalwrite"></block></xml>`
	workspaceV2 := `<xml><block type="io_digitalread"></block></xml>`

	project := testProject("user-1", "Button", workspaceV1)
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.ID == "" {
		t.Fatal("expected project ID to be generated")
	}

	t.Run("create writes integrity record", func(t *testing.T) {
		file, err := store.GetProjectFile(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProjectFile failed: %v", err)
		}
		if file.Checksum != sums.Sum([]byte(workspaceV1)) {
			t.Errorf("checksum = %q", file.Checksum)
		}
		if file.Size != int64(len(workspaceV1)) {
			t.Errorf("size = %d, want %d", file.Size, len(workspaceV1))
		}
		if file.ContentType != "application/xml" {
			t.Errorf("content type = %q", file.ContentType)
		}
		if file.UserID != "user-1" || file.ProjectID != project.ID {
			t.Errorf("ownership = %s/%s", file.UserID, file.ProjectID)
		}
		if file.Filename != "Button.xml" {
			t.Errorf("filename = %q", file.Filename)
		}
	})

	t.Run("workspace change replaces the record", func(t *testing.T) {
		project.Workspace = workspaceV2
		if err := store.UpdateProject(ctx, project); err != nil {
			t.Fatalf("UpdateProject failed: %v", err)
		}
		file, err := store.GetProjectFile(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProjectFile failed: %v", err)
		}
		if file.Checksum != sums.Sum([]byte(workspaceV2)) {
			t.Errorf("checksum not refreshed: %q", file.Checksum)
		}
	})

	t.Run("metadata-only update keeps the record", func(t *testing.T) {
		before, err := store.GetProjectFile(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProjectFile failed: %v", err)
		}
		project.Description = "Reads a button"
		if err := store.UpdateProject(ctx, project); err != nil {
			t.Fatalf("UpdateProject failed: %v", err)
		}
		after, err := store.GetProjectFile(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProjectFile failed: %v", err)
		}
		if before.ID != after.ID {
			t.Error("integrity record replaced without a workspace change")
		}
	})

	t.Run("delete removes file records first", func(t *testing.T) {
		if err := store.DeleteProject(ctx, project.ID); err != nil {
			t.Fatalf("DeleteProject failed: %v", err)
		}
		if _, err := store.GetProjectFile(ctx, project.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("file record orphaned: %v", err)
		}
		if _, err := store.GetProject(ctx, project.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("project survived delete: %v", err)
		}
	})
}

func TestProjectRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := testProject("user-1", "Sweep", "<xml><block/></xml>")
	original.Description = "Servo sweep"
	original.IsPublic = true
	original.Tags = []string{"servo", "motion"}
	if err := store.CreateProject(ctx, original); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	got, err := store.GetProject(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Name != "Sweep" || got.Description != "Servo sweep" || !got.IsPublic {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "servo" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.CreatedAt == 0 || got.UpdatedAt == 0 {
		t.Error("timestamps not set")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := models.DefaultSettings("user-1")
	settings.TutorialCompleted["first-blink"] = true
	if err := store.CreateSettings(ctx, settings); err != nil {
		t.Fatalf("CreateSettings failed: %v", err)
	}
	if err := store.CreateSettings(ctx, settings); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := store.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.BoardType != models.BoardUno || !got.AutoSave {
		t.Errorf("got %+v", got)
	}
	if !got.TutorialCompleted["first-blink"] {
		t.Errorf("TutorialCompleted = %v", got.TutorialCompleted)
	}

	got.Theme = models.ThemeDark
	if err := store.UpdateSettings(ctx, got); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	updated, err := store.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if updated.Theme != models.ThemeDark {
		t.Errorf("Theme = %q", updated.Theme)
	}
}

func TestUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "x"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected user ID to be generated")
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byEmail.ID != byID.ID {
		t.Errorf("lookups disagree: %s vs %s", byEmail.ID, byID.ID)
	}

	dup := &models.User{Email: "alice@example.com", Name: "Imposter", PasswordHash: "y"}
	if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLegacySeedAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	board := "esp32"
	bundle := models.LegacyBundle{
		Profile:  &models.LegacyProfile{Email: "old@example.com", DisplayName: "Old Alice"},
		Settings: &models.LegacySettings{Board: &board},
		Projects: []models.LegacyProject{
			{ID: "lp-1", Name: "First", Workspace: "<xml/>"},
			{ID: "lp-2", Name: "Second", Workspace: "<xml/>"},
		},
	}
	if err := store.SeedLegacy(ctx, "user-1", bundle); err != nil {
		t.Fatalf("SeedLegacy failed: %v", err)
	}

	profile, err := store.GetLegacyProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetLegacyProfile failed: %v", err)
	}
	if profile.DisplayName != "Old Alice" {
		t.Errorf("profile = %+v", profile)
	}

	settings, err := store.GetLegacySettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetLegacySettings failed: %v", err)
	}
	if settings.Board == nil || *settings.Board != "esp32" {
		t.Errorf("settings = %+v", settings)
	}

	projects, err := store.ListLegacyProjects(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListLegacyProjects failed: %v", err)
	}
	if len(projects) != 2 || projects[0].ID != "lp-1" || projects[1].ID != "lp-2" {
		t.Errorf("projects out of export order: %v", projects)
	}

	if _, err := store.GetLegacyProfile(ctx, "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
