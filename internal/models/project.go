package models

// Project name length bounds.
const (
	MinProjectNameLength = 1
	MaxProjectNameLength = 100
)

// Project is a block-editor project in the authoritative store.
type Project struct {
	// ID is the unique identifier (UUID format).
	ID string `json:"id"`

	// UserID is the owner key.
	UserID string `json:"userId"`

	// Name is the human-readable project name, 1-100 characters.
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Workspace is the block-editor document as an XML string. Every write
	// that changes it must pass structural validation first and refreshes the
	// project's ProjectFile record.
	Workspace string `json:"workspace"`

	// BoardType is one of the Board* constants.
	BoardType string `json:"boardType"`

	// IsPublic makes the project visible in the public gallery.
	IsPublic bool `json:"isPublic"`

	// CanShare allows other users to copy the project.
	CanShare bool `json:"canShare"`

	// Tags is an optional set of labels.
	Tags []string `json:"tags,omitempty"`

	// Likes and Views are display counters, default 0.
	Likes int64 `json:"likes"`
	Views int64 `json:"views"`

	// LegacyID is the project's key in the legacy store, kept as an audit
	// breadcrumb for migrated projects. Empty for projects created directly.
	LegacyID string `json:"legacyId,omitempty"`

	// MigrationID links the record to the migration that created it.
	MigrationID string `json:"migrationId,omitempty"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// ProjectFile is the integrity record for a project's workspace document.
// It is created or replaced whenever the owning project's workspace content
// changes and is deleted before its project, never orphaned. External tooling
// re-verifies stored content against Size and Checksum.
type ProjectFile struct {
	// ID is the unique identifier (UUID format).
	ID string `json:"id"`

	// ProjectID is the owning project.
	ProjectID string `json:"projectId"`

	// UserID is the owner key, denormalized for per-user integrity sweeps.
	UserID string `json:"userId"`

	// Filename is the document's name, e.g. "blink.xml".
	Filename string `json:"filename"`

	// ContentType is the MIME type of the stored content.
	ContentType string `json:"contentType"`

	// Size is the content length in bytes.
	Size int64 `json:"size"`

	// Checksum is the content's checksum tag (see the checksum package).
	Checksum string `json:"checksum"`

	// StorageRef is an opaque reference to where the content lives.
	StorageRef string `json:"storageRef"`

	// UploadedAt is a Unix timestamp.
	UploadedAt int64 `json:"uploadedAt"`
}
