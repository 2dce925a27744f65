package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anmolsh/blockbridge/internal/middleware"
	"github.com/anmolsh/blockbridge/internal/migrate"
	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
)

// MigrationService exposes the migration core over HTTP: migrate, status,
// rollback, and the dual-read accessors.
type MigrationService struct {
	orch     *migrate.Orchestrator
	resolver *migrate.Resolver
}

// NewMigrationService creates a new migration service.
func NewMigrationService(orch *migrate.Orchestrator, resolver *migrate.Resolver) *MigrationService {
	return &MigrationService{orch: orch, resolver: resolver}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

type migrateRequest struct {
	Bundle   models.LegacyBundle `json:"bundle"`
	Checksum string              `json:"checksum"`
}

// Migrate handles POST /v1/migrate. The caller migrates their own data; the
// owner check happens in the orchestrator against the verified identity.
func (s *MigrationService) Migrate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req migrateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.orch.Migrate(r.Context(), identity, identity.Subject, req.Bundle, req.Checksum)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Status handles GET /v1/migration-status. Never-migrated is a 200 with
// migrated=false, not an error.
func (s *MigrationService) Status(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	status, err := s.orch.Status(r.Context(), identity.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"migrated": false})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"migrated": true, "status": status})
}

type rollbackRequest struct {
	UserID      string `json:"userId"`
	MigrationID string `json:"migrationId"`
}

// Rollback handles POST /v1/rollback. Admin capability is checked by the
// orchestrator before any data is touched.
func (s *MigrationService) Rollback(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req rollbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.orch.Rollback(r.Context(), identity, req.UserID, req.MigrationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rolledBack": result})
}

// Profile handles GET /v1/profile via the dual-read resolver.
func (s *MigrationService) Profile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	read, err := s.resolver.Profile(r.Context(), identity.Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, read)
}

// Settings handles GET /v1/settings via the dual-read resolver. A user with
// no settings anywhere gets the implicit default record.
func (s *MigrationService) Settings(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	read, err := s.resolver.Settings(r.Context(), identity.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusOK, &migrate.SettingsRead{
				Source: migrate.SourceTarget,
				Target: models.DefaultSettings(identity.Subject),
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, read)
}

// Projects handles GET /v1/projects via the dual-read resolver.
func (s *MigrationService) Projects(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	read, err := s.resolver.Projects(r.Context(), identity.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusOK, &migrate.ProjectsRead{Source: migrate.SourceTarget})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, read)
}
