package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableString stores empty strings as NULL so the partial unique index on
// profiles.username ignores users without a handle.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
// modernc.org/sqlite does not export a typed error for this, so the check is
// on the driver's message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// marshalJSONColumn serializes v for storage in a TEXT column.
func marshalJSONColumn(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize column: %w", err)
	}
	return string(data), nil
}

// unmarshalJSONColumn deserializes a TEXT column into out.
func unmarshalJSONColumn(data string, out any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("failed to parse column: %w", err)
	}
	return nil
}
