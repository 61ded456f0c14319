// filepath: internal/formdata/errors.go
package formdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// Kind classifies why a multipart body could not be decoded.
type Kind int

const (
	// MalformedRequest means the Content-Type is not multipart/form-data
	// or carries no usable boundary.
	MalformedRequest Kind = iota + 1
	// TotalTooLarge means the decoded payload of all fields exceeded MaxTotalBytes.
	TotalTooLarge
	// FieldTooLarge means a size-limited field exceeded its own limit.
	FieldTooLarge
	// IncompleteBody means the stream ended, or the client went away,
	// before the multipart framing was complete.
	IncompleteBody
)

func (k Kind) String() string {
	switch k {
	case MalformedRequest:
		return "malformed_request"
	case TotalTooLarge:
		return "total_too_large"
	case FieldTooLarge:
		return "field_too_large"
	case IncompleteBody:
		return "incomplete_body"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DecodeError is returned by Decode for every modeled failure.
// Unexpected transport faults are returned as plain wrapped errors instead.
type DecodeError struct {
	Kind  Kind
	Field string // set for FieldTooLarge
	Err   error
}

func (e *DecodeError) Error() string {
	msg := "formdata: " + e.Kind.String()
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// KindOf reports the Kind of a decode failure, if err is one.
func KindOf(err error) (Kind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

var (
	errNoBoundary   = errors.New("missing boundary parameter")
	errNotMultipart = errors.New("content type is not multipart/form-data")
)

// classify maps a failure seen while walking the multipart stream onto a
// Kind. src carries the last error returned by the underlying body, which
// tells a transport fault apart from broken framing on a clean stream.
func classify(src *sourceReader, err error) error {
	if ctxErr := src.ctx.Err(); ctxErr != nil {
		return &DecodeError{Kind: IncompleteBody, Err: ctxErr}
	}

	cause := src.err
	if cause == nil {
		// The body itself was fine, so the framing is incomplete or corrupt.
		return &DecodeError{Kind: IncompleteBody, Err: err}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(cause, &maxBytesErr) {
		return &DecodeError{Kind: TotalTooLarge, Err: cause}
	}
	if isDisconnect(cause) {
		return &DecodeError{Kind: IncompleteBody, Err: cause}
	}

	return fmt.Errorf("formdata: reading request body: %w", cause)
}

// isDisconnect reports whether a body read error means the peer stopped
// sending (closed, reset, timed out) rather than some local fault.
func isDisconnect(err error) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
