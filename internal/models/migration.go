package models

// MigrationResult is the aggregate outcome of one migration call. Partial
// failure is a normal outcome: callers must inspect Errors rather than rely
// on a top-level error, which is reserved for the gating checks (identity,
// checksum, duplicate).
type MigrationResult struct {
	// Migrated counts sub-resources that were transformed and written
	// successfully.
	Migrated int `json:"migrated"`

	// Errors holds one human-readable description per failed sub-resource,
	// prefixed with the resource kind. Empty on full success.
	Errors []string `json:"errors"`
}

// MigrationStatus is the persisted duplicate-prevention record, one per
// migrated user. Its presence blocks any further migration for the user
// (wholesale per-user guard). The per-kind counts record what the migration
// wrote, for status reporting and rollback verification.
type MigrationStatus struct {
	// UserID is the migrated user.
	UserID string `json:"userId"`

	// MigrationID identifies the migration run that wrote the user's records.
	MigrationID string `json:"migrationId"`

	// MigratedAt is the Unix timestamp of the run.
	MigratedAt int64 `json:"migratedAt"`

	// Per-kind counts of successfully written sub-resources.
	Profiles int `json:"profiles"`
	Settings int `json:"settings"`
	Projects int `json:"projects"`
}

// RollbackResult reports what a rollback removed, per resource kind.
type RollbackResult struct {
	Profiles int `json:"profiles"`
	Settings int `json:"settings"`
	Projects int `json:"projects"`
}
