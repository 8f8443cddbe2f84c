package shared

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to mutation and listing callers. Storage-level
// errors are mapped onto these at the platform/db boundary and never cross
// the handler edge raw.
var (
	// ErrUnauthorized indicates no valid session for a protected operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid session lacking the required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates input failed schema validation.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness-constrained field collides with an existing row.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates deletion blocked because dependent rows exist.
	ErrConflict = errors.New("referential conflict")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// FieldError describes a single field rule violation for custom validators.
func FieldError(field, rule string) error {
	return fmt.Errorf("%s %s", field, rule)
}

// ErrorCode returns the short machine code for a taxonomy error, or empty.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "referential_conflict"
	default:
		return "storage_unavailable"
	}
}

// UserSafeMessage returns a message suitable for display. Unmapped errors
// collapse to a generic message; details stay in server logs.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidCredentials):
		return err.Error()
	default:
		return "something went wrong, please try again"
	}
}
