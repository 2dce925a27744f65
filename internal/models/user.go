package models

// User is a registered account known to the identity provider. It carries
// the credential hash and the verified identity fields (email, name, avatar)
// that mutating operations check ownership against. The user's public-facing
// data lives in Profile, keyed by the same ID.
type User struct {
	// ID is the unique identifier for the user (UUID format). It is the
	// subject of issued identity tokens and the owner key of the user's
	// profile, settings and projects.
	ID string `json:"id"`

	// Email is the user's email address (unique). Used for login.
	Email string `json:"email"`

	// Name is the display name.
	Name string `json:"name"`

	// PictureURL is an optional avatar URL.
	PictureURL string `json:"pictureUrl,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// Admin grants the elevated capability required for migration rollback.
	Admin bool `json:"admin"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}
