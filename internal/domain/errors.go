package domain

import (
	"errors"
	"fmt"
)

// Patch errors
var (
	ErrPatchNotFound  = errors.New("patch not found")
	ErrInvalidVersion = errors.New("invalid patch version")
)

// Champion errors
var (
	ErrChampionNotFound = errors.New("champion not found")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("admin login is not configured")
)

// NetworkError is returned by remote collaborators for transport failures
// and non-2xx responses.
type NetworkError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("request %s failed: status %d: %s", e.URL, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("request %s failed: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SerializationError is returned when a stored snapshot blob cannot be
// encoded or decoded.
type SerializationError struct {
	Version string
	Op      string // "encode" or "decode"
	Err     error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s snapshot %q: %v", e.Op, e.Version, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
