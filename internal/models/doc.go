// Package models defines the core domain records for blockbridge.
//
// Two families of shapes live here:
//
//   - Legacy shapes (LegacyBundle, LegacySettings, LegacyProfile,
//     LegacyProject): records exported from the old store, supplied by
//     callers or read back from the imported legacy tables. Optional legacy
//     fields are pointers so "absent" and "zero" stay distinguishable;
//     defaulting happens in the transform package.
//
//   - Target shapes (Profile, Settings, Project, ProjectFile): the records
//     owned by the new authoritative store. Each target record written by a
//     migration carries the MigrationID that produced it, so a rollback can
//     find and remove exactly what one migration wrote.
//
// MigrationStatus and MigrationResult describe the migration itself:
// MigrationStatus is the persisted per-user duplicate guard, MigrationResult
// the per-call aggregate returned to the caller.
//
// Conventions follow the rest of the codebase: string UUIDs for ids, Unix
// timestamps as int64.
package models
