// Package transform maps legacy-shaped records onto target-store records.
//
// The three transformers are pure functions and total over missing optional
// fields: anything the legacy shape omits gets an explicit default rather
// than failing. The only failures are validation failures (malformed
// workspace document, bad name length, unknown enum value), which come back
// as *ValidationError so the migration orchestrator can record them per
// resource instead of aborting the batch.
package transform

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/anmolsh/blockbridge/internal/models"
)

// ValidationError describes a single sub-resource that failed validation.
// Resource names the offending record (kind plus identifier) so the error is
// meaningful inside an aggregate migration result.
type ValidationError struct {
	Resource string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

// Profile maps a legacy profile onto the target shape. Identity fields copy
// 1:1; unset optional fields stay empty; visibility defaults to public when
// the legacy record does not specify it.
func Profile(userID string, legacy models.LegacyProfile, now time.Time) *models.Profile {
	p := &models.Profile{
		UserID:       userID,
		Email:        legacy.Email,
		Name:         legacy.DisplayName,
		ProfileImage: legacy.AvatarURL,
		IsPublic:     true,
		LastLogin:    now.Unix(),
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}
	if legacy.Username != nil {
		p.Username = *legacy.Username
	}
	if legacy.Bio != nil {
		p.Bio = *legacy.Bio
	}
	if legacy.Location != nil {
		p.Location = *legacy.Location
	}
	if legacy.Website != nil {
		p.Website = *legacy.Website
	}
	if legacy.Public != nil {
		p.IsPublic = *legacy.Public
	}
	return p
}

// Settings maps legacy settings onto the target shape with per-field
// defaulting: board "uno", theme "light", language "en", autoSave on,
// tutorial map empty. An unknown legacy board or theme value falls back to
// the default rather than failing; settings migration is best-effort.
func Settings(userID string, legacy models.LegacySettings, now time.Time) *models.Settings {
	s := models.DefaultSettings(userID)
	s.UpdatedAt = now.Unix()

	if legacy.Board != nil && models.ValidBoardType(*legacy.Board) {
		s.BoardType = *legacy.Board
	}
	if legacy.Theme != nil && models.ValidTheme(*legacy.Theme) {
		s.Theme = *legacy.Theme
	}
	if legacy.Language != nil && *legacy.Language != "" {
		s.Language = *legacy.Language
	}
	if legacy.AutoSave != nil {
		s.AutoSave = *legacy.AutoSave
	}
	for step, done := range legacy.Tutorial {
		s.TutorialCompleted[step] = done
	}
	return s
}

// Project maps a legacy project onto the target shape. The workspace document
// must pass structural validation and the name must be within bounds; either
// violation returns a *ValidationError naming the project. The legacy record
// id is preserved as an audit breadcrumb.
func Project(userID string, legacy models.LegacyProject, now time.Time) (*models.Project, error) {
	resource := fmt.Sprintf("project %q", legacy.Name)
	if legacy.Name == "" && legacy.ID != "" {
		resource = fmt.Sprintf("project %s", legacy.ID)
	}

	// Name bounds are in characters, not bytes.
	if n := utf8.RuneCountInString(legacy.Name); n < models.MinProjectNameLength || n > models.MaxProjectNameLength {
		return nil, &ValidationError{
			Resource: resource,
			Reason:   fmt.Sprintf("name must be %d-%d characters", models.MinProjectNameLength, models.MaxProjectNameLength),
		}
	}
	if err := ValidateWorkspace(legacy.Workspace); err != nil {
		return nil, &ValidationError{Resource: resource, Reason: err.Error()}
	}

	p := &models.Project{
		UserID:    userID,
		Name:      legacy.Name,
		Workspace: legacy.Workspace,
		BoardType: models.BoardUno,
		LegacyID:  legacy.ID,
		Tags:      legacy.Tags,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	if legacy.Description != nil {
		p.Description = *legacy.Description
	}
	if legacy.Board != nil && models.ValidBoardType(*legacy.Board) {
		p.BoardType = *legacy.Board
	}
	if legacy.Public != nil {
		p.IsPublic = *legacy.Public
	}
	if legacy.Shared != nil {
		p.CanShare = *legacy.Shared
	}
	return p, nil
}
