package models

// Profile is a user's public-facing profile in the authoritative store.
// Exactly one per user.
type Profile struct {
	// UserID is the owner key. Immutable after creation.
	UserID string `json:"userId"`

	// Email is the user's email address, sourced from the identity provider.
	Email string `json:"email"`

	// Name is the display name.
	Name string `json:"name"`

	// ProfileImage is an optional avatar URL.
	ProfileImage string `json:"profileImage,omitempty"`

	// Username is an optional handle. When set it must be unique across all
	// profiles other than the owner's own prior record.
	Username string `json:"username,omitempty"`

	// Bio is an optional free-form blurb, capped at MaxBioLength.
	Bio string `json:"bio,omitempty"`

	// Location is optional free text.
	Location string `json:"location,omitempty"`

	// Website is an optional URL.
	Website string `json:"website,omitempty"`

	// IsPublic controls whether the profile is visible to other users.
	IsPublic bool `json:"isPublic"`

	// MigrationID links the record to the migration that created it, empty
	// for profiles created directly.
	MigrationID string `json:"migrationId,omitempty"`

	// LastLogin, CreatedAt and UpdatedAt are Unix timestamps.
	LastLogin int64 `json:"lastLogin"`
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// MaxBioLength bounds Profile.Bio.
const MaxBioLength = 500
