package issuer

import (
	"errors"
	"fmt"

	dErrors "github.com/0xronaldo/backend-zkp-lastproyect/pkg/domain-errors"
)

// Kind classifies issuer node call failures.
//
// Callers decide fatal versus best-effort policy from the operation, not the
// kind; the kind exists so failures can be surfaced with a precise cause.
type Kind string

const (
	// KindUnreachable indicates the node could not be reached at all
	// (connection refused, DNS failure, unresolved issuer identity).
	KindUnreachable Kind = "unreachable"

	// KindUnauthorized indicates the shared credential was rejected.
	KindUnauthorized Kind = "unauthorized"

	// KindTimeout indicates the per-operation budget elapsed.
	KindTimeout Kind = "timeout"

	// KindServerError indicates the node answered with a 5xx.
	KindServerError Kind = "server_error"

	// KindUnknown covers everything else (unexpected status, bad payload).
	KindUnknown Kind = "unknown"
)

// Error wraps issuer node failures with normalized classification.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("issuer %s [%s]: %s: %v", e.Op, e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("issuer %s [%s]: %s", e.Op, e.Kind, e.Detail)
}

// Unwrap supports error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified issuer error.
func NewError(kind Kind, op, detail string, err error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Err: err}
}

// KindOf extracts the classification from an error, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}

// ToDomain translates a classified issuer error into the transport-agnostic
// domain error taxonomy. Only kind and message cross the boundary; never
// request payloads or credentials.
func ToDomain(err error) error {
	var ie *Error
	if !errors.As(err, &ie) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "issuer node call failed")
	}
	switch ie.Kind {
	case KindUnreachable:
		return dErrors.Wrap(err, dErrors.CodeIssuerUnreachable, "issuer node unreachable")
	case KindUnauthorized:
		return dErrors.Wrap(err, dErrors.CodeIssuerUnauthorized, "issuer node rejected credentials")
	case KindTimeout:
		return dErrors.Wrap(err, dErrors.CodeIssuerTimeout, "issuer node timed out")
	case KindServerError:
		return dErrors.Wrap(err, dErrors.CodeIssuerServerError, "issuer node internal error")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "issuer node call failed")
	}
}
