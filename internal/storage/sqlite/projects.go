package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

const workspaceContentType = "application/xml"

// workspaceFile builds the integrity record for a project's current
// workspace content. Called inside the same transaction as the project
// write, so a project row and its file record never diverge.
func (s *SQLiteStore) workspaceFile(project *models.Project, now int64) *models.ProjectFile {
	return &models.ProjectFile{
		ID:          uuid.New().String(),
		ProjectID:   project.ID,
		UserID:      project.UserID,
		Filename:    project.Name + ".xml",
		ContentType: workspaceContentType,
		Size:        int64(len(project.Workspace)),
		Checksum:    s.sums.Sum([]byte(project.Workspace)),
		StorageRef:  fmt.Sprintf("sqlite://projects/%s/workspace", project.ID),
		UploadedAt:  now,
	}
}

func insertProjectFile(ctx context.Context, tx *sql.Tx, f *models.ProjectFile) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO project_files (id, project_id, user_id, filename, content_type, size, checksum, storage_ref, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.ProjectID, f.UserID, f.Filename, f.ContentType, f.Size, f.Checksum, f.StorageRef, f.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project file: %w", err)
	}
	return nil
}

// CreateProject persists a new project and its workspace integrity record in
// one transaction.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if project.CreatedAt == 0 {
		project.CreatedAt = now
	}
	if project.UpdatedAt == 0 {
		project.UpdatedAt = now
	}
	tags, err := marshalJSONColumn(project.Tags)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, description, workspace, board_type, is_public, can_share, tags, likes, views, legacy_id, migration_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.UserID, project.Name, project.Description, project.Workspace,
		project.BoardType, boolToInt(project.IsPublic), boolToInt(project.CanShare),
		tags, project.Likes, project.Views, project.LegacyID, project.MigrationID,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	if err := insertProjectFile(ctx, tx, s.workspaceFile(project, now)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanProject(scan func(dest ...any) error) (*models.Project, error) {
	p := &models.Project{}
	var isPublic, canShare int
	var tags string
	err := scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Workspace, &p.BoardType,
		&isPublic, &canShare, &tags, &p.Likes, &p.Views, &p.LegacyID, &p.MigrationID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.IsPublic = isPublic != 0
	p.CanShare = canShare != 0
	if err := unmarshalJSONColumn(tags, &p.Tags); err != nil {
		return nil, err
	}
	return p, nil
}

const projectColumns = `id, user_id, name, description, workspace, board_type, is_public, can_share, tags, likes, views, legacy_id, migration_id, created_at, updated_at`

// GetProject retrieves a project by id.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", projectID)
	p, err := scanProject(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListProjects returns all projects owned by a user in creation order.
func (s *SQLiteStore) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE user_id = ? ORDER BY rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// UpdateProject replaces an existing project. When the workspace content
// changed, the old integrity record is replaced with one computed over the
// new content, in the same transaction.
func (s *SQLiteStore) UpdateProject(ctx context.Context, project *models.Project) error {
	existing, err := s.GetProject(ctx, project.ID)
	if err != nil {
		return err
	}
	tags, err := marshalJSONColumn(project.Tags)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	project.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, workspace = ?, board_type = ?, is_public = ?, can_share = ?, tags = ?, likes = ?, views = ?, updated_at = ?
		 WHERE id = ?`,
		project.Name, project.Description, project.Workspace, project.BoardType,
		boolToInt(project.IsPublic), boolToInt(project.CanShare), tags,
		project.Likes, project.Views, project.UpdatedAt, project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if existing.Workspace != project.Workspace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM project_files WHERE project_id = ?", project.ID); err != nil {
			return fmt.Errorf("failed to replace project file: %w", err)
		}
		if err := insertProjectFile(ctx, tx, s.workspaceFile(project, now)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteProject removes a project and its file records. File records go
// first so none is ever orphaned, even on partial failure.
func (s *SQLiteStore) DeleteProject(ctx context.Context, projectID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM project_files WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("failed to delete project files: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetProjectFile retrieves the integrity record for a project's workspace.
func (s *SQLiteStore) GetProjectFile(ctx context.Context, projectID string) (*models.ProjectFile, error) {
	f := &models.ProjectFile{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, user_id, filename, content_type, size, checksum, storage_ref, uploaded_at
		 FROM project_files WHERE project_id = ?`, projectID,
	).Scan(&f.ID, &f.ProjectID, &f.UserID, &f.Filename, &f.ContentType, &f.Size, &f.Checksum, &f.StorageRef, &f.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project file: %w", err)
	}
	return f, nil
}
