package gateway

import (
	"errors"
	"fmt"

	"github.com/deviro/influencer-post-tracker/internal/models"
)

// Kind classifies gateway failures so callers can pick a status code or UI
// treatment without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindReference
	KindPermission
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindReference:
		return "reference"
	case KindPermission:
		return "permission"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is a backend failure translated to a human-readable message. Raw
// backend codes never leak past the gateway except inside the fallback
// message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func notFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", entity)}
}

func transport(err error) *Error {
	return &Error{Kind: KindTransport, Message: fmt.Sprintf("Request failed: %v", err)}
}

// fromValidation wraps a row that failed the decode-validate step.
func fromValidation(err error) *Error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return &Error{Kind: KindValidation, Message: ve.Error()}
	}
	return &Error{Kind: KindValidation, Message: fmt.Sprintf("Validation error: %v", err)}
}

// translateCode maps PostgreSQL error codes to the user-facing taxonomy.
// Anything unrecognized falls back to a generic message that preserves the
// raw text.
func translateCode(code, raw string) *Error {
	switch code {
	case "23505":
		return &Error{Kind: KindConflict, Message: "This record already exists"}
	case "23503":
		return &Error{Kind: KindReference, Message: "Cannot delete this record because it is referenced by other data"}
	case "42501":
		return &Error{Kind: KindPermission, Message: "You do not have permission to perform this action"}
	default:
		if raw == "" {
			raw = "Unknown error"
		}
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("Database error: %s", raw)}
	}
}
