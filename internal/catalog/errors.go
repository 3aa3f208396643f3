package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a row referenced by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness constraint rejected a write,
	// usually because a concurrent caller created the same identity first.
	// Callers recover by re-reading the winning row.
	ErrConflict = errors.New("conflict")
)

// translateWrite wraps a write error, mapping SQLite uniqueness violations
// to ErrConflict so callers can apply the re-read recovery path.
func translateWrite(operation string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w", operation, ErrConflict)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
