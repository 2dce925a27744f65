// Package service exposes the migration subsystem's callable operations over
// thin JSON HTTP handlers. Handlers only decode, authorize via the request
// context, delegate, and encode; all semantics live in the migrate, transform
// and storage packages.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anmolsh/blockbridge/internal/migrate"
	"github.com/anmolsh/blockbridge/internal/storage"
	"github.com/anmolsh/blockbridge/internal/transform"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped is an
// internal error and the original message is not leaked.
func writeError(w http.ResponseWriter, err error) {
	var verr *transform.ValidationError
	switch {
	case errors.Is(err, migrate.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, migrate.ErrChecksumMismatch),
		errors.Is(err, storage.ErrUsernameTaken),
		errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, migrate.ErrAlreadyMigrated):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		slog.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
