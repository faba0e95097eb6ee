package errors

import (
	stdErrors "errors"
	"fmt"
)

// RemoteError represents a failure talking to the remote catalog: transport
// errors, non-2xx responses and undecodable payloads.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s failed (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s failed (HTTP %d)", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return e.Op + " failed"
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError creates a RemoteError for the given operation
func NewRemoteError(op string, statusCode int, err error) *RemoteError {
	return &RemoteError{Op: op, StatusCode: statusCode, Err: err}
}

// IsRemoteError checks if error is a RemoteError
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return stdErrors.As(err, &remoteErr)
}

// DecodeError is returned when the catalog payload is not valid JSON for the
// expected shape. It counts as a remote failure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode catalog response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError checks if error is a DecodeError
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return stdErrors.As(err, &decodeErr)
}

// IsRemoteFailure reports whether err came from the remote side of a search:
// transport, status, rate limit or decoding.
func IsRemoteFailure(err error) bool {
	return IsRemoteError(err) || IsDecodeError(err) || IsRateLimitError(err)
}
