package models

// LegacyBundle is the caller-supplied collection of legacy-shaped resources
// submitted for migration in one call. Every section is optional; an entirely
// empty bundle is accepted and migrates nothing.
//
// The bundle is checksummed over its canonical JSON serialization, so field
// order here is part of the integrity contract: reordering fields changes the
// tag for every caller.
type LegacyBundle struct {
	Settings *LegacySettings `json:"settings,omitempty"`
	Profile  *LegacyProfile  `json:"profile,omitempty"`
	Projects []LegacyProject `json:"projects,omitempty"`
}

// LegacySettings is the old store's per-user settings record. Absent fields
// take the defaults documented in the transform package.
type LegacySettings struct {
	Board    *string         `json:"board,omitempty"`
	Theme    *string         `json:"theme,omitempty"`
	Language *string         `json:"language,omitempty"`
	AutoSave *bool           `json:"autoSave,omitempty"`
	Tutorial map[string]bool `json:"tutorial,omitempty"`
}

// LegacyProfile is the old store's user profile record. Identity fields
// (email, display name, avatar) map 1:1 onto the target shape; the rest are
// optional.
type LegacyProfile struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	AvatarURL   string  `json:"avatarUrl,omitempty"`
	Username    *string `json:"username,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Location    *string `json:"location,omitempty"`
	Website     *string `json:"website,omitempty"`
	Public      *bool   `json:"public,omitempty"`
}

// LegacyProject is one project record from the old store. ID is the legacy
// store's own key and is preserved on the target record as an audit
// breadcrumb. Workspace holds the block-editor document as an XML string and
// must pass structural validation before the project is written anywhere.
type LegacyProject struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Workspace   string   `json:"workspace"`
	Board       *string  `json:"board,omitempty"`
	Public      *bool    `json:"public,omitempty"`
	Shared      *bool    `json:"shared,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
