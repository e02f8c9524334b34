package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ValidationError describes a record or payload that failed validation. The
// message format matches what the UI surfaces to users.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Validation error: %s", e.Reason)
	}
	return fmt.Sprintf("Validation error: %s (field: %s)", e.Reason, e.Field)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// tempIDPrefix is the reserved id namespace for records that have been
// applied optimistically but not yet confirmed by the backend. Rollback and
// reconciliation rely on it to find exactly the synthetic entries.
const tempIDPrefix = "temp-"

func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
