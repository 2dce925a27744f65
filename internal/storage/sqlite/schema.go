package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist.
// IMPORTANT: projects must be created BEFORE project_files due to the
// foreign key constraint.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    picture_url TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    admin INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    name TEXT NOT NULL,
    profile_image TEXT NOT NULL DEFAULT '',
    username TEXT,
    bio TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL DEFAULT '',
    is_public INTEGER NOT NULL DEFAULT 0,
    migration_id TEXT NOT NULL DEFAULT '',
    last_login INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username) WHERE username IS NOT NULL;

CREATE TABLE IF NOT EXISTS settings (
    user_id TEXT PRIMARY KEY,
    board_type TEXT NOT NULL,
    theme TEXT NOT NULL,
    language TEXT NOT NULL,
    auto_save INTEGER NOT NULL,
    tutorial_completed TEXT NOT NULL DEFAULT '{}',
    migration_id TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    workspace TEXT NOT NULL,
    board_type TEXT NOT NULL,
    is_public INTEGER NOT NULL DEFAULT 0,
    can_share INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT '[]',
    likes INTEGER NOT NULL DEFAULT 0,
    views INTEGER NOT NULL DEFAULT 0,
    legacy_id TEXT NOT NULL DEFAULT '',
    migration_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS project_files (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    filename TEXT NOT NULL,
    content_type TEXT NOT NULL,
    size INTEGER NOT NULL,
    checksum TEXT NOT NULL,
    storage_ref TEXT NOT NULL,
    uploaded_at INTEGER NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS migration_status (
    user_id TEXT PRIMARY KEY,
    migration_id TEXT NOT NULL,
    migrated_at INTEGER NOT NULL,
    profiles INTEGER NOT NULL DEFAULT 0,
    settings INTEGER NOT NULL DEFAULT 0,
    projects INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS legacy_profiles (
    user_id TEXT PRIMARY KEY,
    record TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS legacy_settings (
    user_id TEXT PRIMARY KEY,
    record TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS legacy_projects (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    record TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects(user_id);
CREATE INDEX IF NOT EXISTS idx_projects_migration_id ON projects(migration_id);
CREATE INDEX IF NOT EXISTS idx_project_files_project_id ON project_files(project_id);
CREATE INDEX IF NOT EXISTS idx_legacy_projects_user_id ON legacy_projects(user_id);
`

// runSchema executes the schema setup.
func runSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
