package service

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/anmolsh/blockbridge/internal/middleware"
	"github.com/anmolsh/blockbridge/internal/models"
	"github.com/anmolsh/blockbridge/internal/storage"
	"github.com/anmolsh/blockbridge/internal/transform"
)

// ProjectService exposes the direct project and profile write paths. These
// run the same validation as migration: a workspace never reaches the store
// without passing the structural check, and the store refreshes the
// project's integrity record whenever the workspace changes.
type ProjectService struct {
	store storage.Store
}

// NewProjectService creates a new project service.
func NewProjectService(store storage.Store) *ProjectService {
	return &ProjectService{store: store}
}

type projectRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Workspace   string   `json:"workspace"`
	BoardType   string   `json:"boardType,omitempty"`
	IsPublic    bool     `json:"isPublic,omitempty"`
	CanShare    bool     `json:"canShare,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func validateProjectRequest(req *projectRequest) error {
	if n := utf8.RuneCountInString(req.Name); n < models.MinProjectNameLength || n > models.MaxProjectNameLength {
		return &transform.ValidationError{
			Resource: "project " + req.Name,
			Reason:   "name must be 1-100 characters",
		}
	}
	if req.BoardType != "" && !models.ValidBoardType(req.BoardType) {
		return &transform.ValidationError{
			Resource: "project " + req.Name,
			Reason:   "unknown board type " + req.BoardType,
		}
	}
	if err := transform.ValidateWorkspace(req.Workspace); err != nil {
		return &transform.ValidationError{Resource: "project " + req.Name, Reason: err.Error()}
	}
	return nil
}

// CreateProject handles POST /v1/projects.
func (s *ProjectService) CreateProject(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req projectRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := validateProjectRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	boardType := req.BoardType
	if boardType == "" {
		boardType = models.BoardUno
	}
	now := time.Now().Unix()
	project := &models.Project{
		UserID:      identity.Subject,
		Name:        req.Name,
		Description: req.Description,
		Workspace:   req.Workspace,
		BoardType:   boardType,
		IsPublic:    req.IsPublic,
		CanShare:    req.CanShare,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProject(r.Context(), project); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Project created", "project_id", project.ID, "user_id", identity.Subject)
	writeJSON(w, http.StatusCreated, project)
}

// UpdateProject handles PUT /v1/projects/{id}. Only the owner may write.
func (s *ProjectService) UpdateProject(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	projectID := r.PathValue("id")

	existing, err := s.store.GetProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.UserID != identity.Subject {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you do not own this project"})
		return
	}

	var req projectRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := validateProjectRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Workspace = req.Workspace
	if req.BoardType != "" {
		existing.BoardType = req.BoardType
	}
	existing.IsPublic = req.IsPublic
	existing.CanShare = req.CanShare
	existing.Tags = req.Tags

	if err := s.store.UpdateProject(r.Context(), existing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// DeleteProject handles DELETE /v1/projects/{id}.
func (s *ProjectService) DeleteProject(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	projectID := r.PathValue("id")

	existing, err := s.store.GetProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.UserID != identity.Subject {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you do not own this project"})
		return
	}

	if err := s.store.DeleteProject(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Project deleted", "project_id", projectID, "user_id", identity.Subject)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": projectID})
}

// ProjectFile handles GET /v1/projects/{id}/file, returning the workspace
// integrity record other tooling re-verifies content against.
func (s *ProjectService) ProjectFile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	projectID := r.PathValue("id")

	existing, err := s.store.GetProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.UserID != identity.Subject && !existing.IsPublic {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "you do not own this project"})
		return
	}

	file, err := s.store.GetProjectFile(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

type profileUpdateRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
	Username     string `json:"username,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Location     string `json:"location,omitempty"`
	Website      string `json:"website,omitempty"`
	IsPublic     bool   `json:"isPublic"`
}

// UpdateProfile handles PUT /v1/profile. Creates the profile on first write.
func (s *ProjectService) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req profileUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(req.Bio) > models.MaxBioLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bio too long"})
		return
	}
	if req.Website != "" {
		if _, err := url.ParseRequestURI(req.Website); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "website must be a valid URL"})
			return
		}
	}

	profile, err := s.store.GetProfile(r.Context(), identity.Subject)
	if errors.Is(err, storage.ErrNotFound) {
		now := time.Now().Unix()
		profile = &models.Profile{
			UserID:    identity.Subject,
			Email:     identity.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyProfileUpdate(profile, &req)
		if err := s.store.CreateProfile(r.Context(), profile); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, profile)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	applyProfileUpdate(profile, &req)
	if err := s.store.UpdateProfile(r.Context(), profile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func applyProfileUpdate(profile *models.Profile, req *profileUpdateRequest) {
	profile.Name = req.Name
	profile.ProfileImage = req.ProfileImage
	profile.Username = req.Username
	profile.Bio = req.Bio
	profile.Location = req.Location
	profile.Website = req.Website
	profile.IsPublic = req.IsPublic
}

// UpdateSettings handles PUT /v1/settings. Creates the row on first write;
// until then the user is served the implicit defaults.
func (s *ProjectService) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req models.Settings
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !models.ValidBoardType(req.BoardType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown board type " + req.BoardType})
		return
	}
	if !models.ValidTheme(req.Theme) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown theme " + req.Theme})
		return
	}
	req.UserID = identity.Subject
	if req.TutorialCompleted == nil {
		req.TutorialCompleted = map[string]bool{}
	}

	if _, err := s.store.GetSettings(r.Context(), identity.Subject); errors.Is(err, storage.ErrNotFound) {
		if err := s.store.CreateSettings(r.Context(), &req); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, &req)
		return
	} else if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.UpdateSettings(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &req)
}
