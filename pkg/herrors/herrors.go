// Package herrors defines HelixDB's error taxonomy: a small set of sentinel
// categories that every package wraps its failures in, so the gateway can
// map any error back to an HTTP status and hint without inspecting strings.
package herrors

import (
	"errors"
	"fmt"
)

// Category is one of the abstract error categories from the taxonomy.
type Category string

const (
	// NotFound covers a missing node/edge/vector by id, an empty path, or
	// an empty search result under require_nonempty.
	NotFound Category = "not_found"

	// InvariantViolation always indicates a bug: dangling adjacency,
	// mismatched edge endpoints, HNSW neighbor asymmetry.
	InvariantViolation Category = "invariant_violation"

	// SchemaViolation covers type mismatches, reserved field names,
	// unknown labels, and bad cast targets.
	SchemaViolation Category = "schema_violation"

	// UniquenessViolation covers a duplicate unique-indexed value or a
	// duplicate unique edge.
	UniquenessViolation Category = "uniqueness_violation"

	// InvalidInput covers dimension mismatches, out-of-range parameters,
	// negative edge weights in Dijkstra, and malformed uuids.
	InvalidInput Category = "invalid_input"

	// TransactionConflict is writer contention beyond a timeout; the
	// caller may retry.
	TransactionConflict Category = "transaction_conflict"

	// Transient is an I/O error on the storage file; the current
	// transaction is aborted.
	Transient Category = "transient"

	// ExternalFailure covers a failed embedder HTTP call or any other
	// unreachable external collaborator.
	ExternalFailure Category = "external_failure"
)

// Error is a taxonomy-tagged error. Callers match on Category via
// errors.As, never on message text.
type Error struct {
	Category Category
	Message  string
	Hint     string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target shares this error's category, so
// errors.Is(err, herrors.New(herrors.NotFound, "")) style checks work.
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.Category == e.Category
	}
	return false
}

// New constructs an Error with no hint and no wrapped cause.
func New(category Category, message string) *Error {
	return &Error{Category: category, Message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error around an existing cause.
func Wrap(category Category, message string, err error) *Error {
	return &Error{Category: category, Message: message, Err: err}
}

// WithHint attaches a remediation hint and returns the receiver for chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// CategoryOf extracts the Category of err, or "" if err is not (wrapping) an
// *Error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// IsCategory reports whether err is (or wraps) an *Error of the given
// category.
func IsCategory(err error, category Category) bool {
	return CategoryOf(err) == category
}

// HTTPStatus maps a category to the HTTP status code the gateway should
// respond with: 400 for client-origin categories, 500 otherwise.
func HTTPStatus(category Category) int {
	switch category {
	case NotFound, SchemaViolation, UniquenessViolation, InvalidInput:
		return 400
	case InvariantViolation, TransactionConflict, Transient, ExternalFailure:
		return 500
	default:
		return 500
	}
}

// Sentinel errors for common id-less conditions, matched with errors.Is.
var (
	ErrNodeNotFound   = New(NotFound, "node not found")
	ErrEdgeNotFound   = New(NotFound, "edge not found")
	ErrVectorNotFound = New(NotFound, "vector not found")
	ErrEmptyIndex     = New(InvalidInput, "vector index is empty")
	ErrPathNotFound   = New(NotFound, "no path found")
)
