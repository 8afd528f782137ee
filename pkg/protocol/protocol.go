// Package protocol defines the wire-level request/response envelope the
// gateway hands to (and receives back from) a compiled handler, and the
// error-taxonomy-to-HTTP mapping used to serialize a failure.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/cuemby/helixdb/pkg/herrors"
)

// Format selects the body encoding. JSON is the only one implemented; the
// enum exists so a future zero-copy format can be added behind the same
// contract without touching call sites.
type Format string

const (
	FormatJSON Format = "json"
)

// ReqType distinguishes a handler that only reads the store from one that
// writes to it, the routing signal the worker pool's dispatcher uses to
// pick a channel (spec.md §4.H).
type ReqType string

const (
	ReqQuery    ReqType = "query"
	ReqMutation ReqType = "mutation"
)

// Request is the envelope a gateway route hands to the worker pool.
type Request struct {
	Name     string
	Type     ReqType
	Body     []byte
	InFmt    Format
	OutFmt   Format
	Deadline time.Time // zero means no deadline
}

// IsWrite reports whether this request must go through the single-writer
// channel.
func (r Request) IsWrite() bool { return r.Type == ReqMutation }

// Response is the envelope a handler returns to the gateway for
// serialization onto the wire.
type Response struct {
	Body []byte
	Fmt  Format
}

// ErrorBody is the `{error: {code, message, hint?}}` JSON shape every
// client-visible failure is translated into.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the taxonomy category as code, a human message, and
// an optional remediation hint.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// EncodeError renders err as the wire error body and the HTTP status the
// gateway should respond with.
func EncodeError(err error) ([]byte, int) {
	category := herrors.CategoryOf(err)
	status := herrors.HTTPStatus(category)
	if category == "" {
		category = herrors.Transient
	}

	body := ErrorBody{Error: ErrorDetail{
		Code:    string(category),
		Message: err.Error(),
	}}
	if herr, ok := err.(*herrors.Error); ok {
		body.Error.Hint = herr.Hint
	}

	data, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		return []byte(`{"error":{"code":"transient","message":"failed to encode error"}}`), 500
	}
	return data, status
}

// ErrDeadlineExceeded is returned by the worker pool when a request's
// deadline passes before it is dispatched or completed. The response it
// produces does not roll back any transaction already committed, per
// spec.md §4.H.
var ErrDeadlineExceeded = herrors.New(herrors.TransactionConflict, "deadline exceeded").
	WithHint("retry with a longer deadline or smaller request")
