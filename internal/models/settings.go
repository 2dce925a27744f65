package models

// Board types supported by the block editor.
const (
	BoardUno   = "uno"
	BoardMega  = "mega"
	BoardNano  = "nano"
	BoardESP32 = "esp32"
)

// Themes supported by the editor UI.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ValidBoardType reports whether s is one of the supported board types.
func ValidBoardType(s string) bool {
	switch s {
	case BoardUno, BoardMega, BoardNano, BoardESP32:
		return true
	}
	return false
}

// ValidTheme reports whether s is a supported theme.
func ValidTheme(s string) bool {
	return s == ThemeLight || s == ThemeDark
}

// Settings is a user's editor settings record. Exactly one per user; a user
// with no persisted row is served the defaults (see DefaultSettings) and the
// row is only written on first change.
type Settings struct {
	// UserID is the owner key.
	UserID string `json:"userId"`

	// BoardType is one of the Board* constants.
	BoardType string `json:"boardType"`

	// Theme is one of the Theme* constants.
	Theme string `json:"theme"`

	// Language is a short language code, e.g. "en".
	Language string `json:"language"`

	// AutoSave enables periodic workspace saves in the editor.
	AutoSave bool `json:"autoSave"`

	// TutorialCompleted maps tutorial step names to completion.
	TutorialCompleted map[string]bool `json:"tutorialCompleted"`

	// MigrationID links the record to the migration that created it, empty
	// for settings written directly.
	MigrationID string `json:"migrationId,omitempty"`

	// UpdatedAt is a Unix timestamp.
	UpdatedAt int64 `json:"updatedAt"`
}

// DefaultSettings returns the implicit settings record for a user with no
// persisted row.
func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:            userID,
		BoardType:         BoardUno,
		Theme:             ThemeLight,
		Language:          "en",
		AutoSave:          true,
		TutorialCompleted: map[string]bool{},
	}
}
