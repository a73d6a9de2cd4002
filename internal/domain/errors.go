package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInputMissing is returned when the document to scan does not exist.
var ErrInputMissing = errors.New("input document not found")

// ErrorKind classifies why a repository could not be fetched.
type ErrorKind int

const (
	// ErrorUnknown covers network and decoding failures.
	ErrorUnknown ErrorKind = iota
	// ErrorNotFound means the repository was deleted, renamed or made private.
	ErrorNotFound
	// ErrorRateLimited means the platform answered 403.
	ErrorRateLimited
	// ErrorHTTP is any other non-success status.
	ErrorHTTP
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorNotFound:
		return "not_found"
	case ErrorRateLimited:
		return "rate_limited"
	case ErrorHTTP:
		return "http_error"
	default:
		return "unknown"
	}
}

// FetchError is the error every Fetcher returns for a repository it could not load.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

// NewFetchError classifies a failed call by its HTTP status code.
func NewFetchError(statusCode int, err error) *FetchError {
	fe := &FetchError{StatusCode: statusCode, Err: err}
	switch {
	case statusCode == http.StatusNotFound:
		fe.Kind = ErrorNotFound
	case statusCode == http.StatusForbidden:
		fe.Kind = ErrorRateLimited
	case statusCode >= 200 && statusCode < 300, statusCode == 0:
		fe.Kind = ErrorUnknown
	default:
		fe.Kind = ErrorHTTP
	}
	return fe
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrorNotFound:
		return "Repository not found"
	case ErrorRateLimited:
		return "Rate limited or access denied"
	case ErrorHTTP:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a FetchError of kind ErrorNotFound.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == ErrorNotFound
}
