package goblin

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a stored object is not found
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenMalformed is returned for any structural token failure: wrong
	// segment count, empty segment, undecodable base64, invalid JSON.
	// The message is deliberately generic so callers probing the token
	// format learn nothing about which stage failed.
	ErrTokenMalformed = errors.New("Invalid token format")
	// ErrBadSignature is returned when the token is structurally valid but
	// the HMAC does not match.
	ErrBadSignature = errors.New("Invalid signature")
	// ErrTokenExpired is returned when a valid token is past its expiresAt.
	ErrTokenExpired = errors.New("Token expired")
	// ErrMissingExpiry is returned by HMACVerifier when RequireExpiry is set
	// and the grant carries no expiresAt claim.
	ErrMissingExpiry = errors.New("Token missing expiry")
)

// ContentTypeError reports a grant whose content-type constraint the request
// does not satisfy. Expected and actual values are safe to disclose: the
// caller already holds a validly-signed token for this operation.
type ContentTypeError struct {
	Expected string
	Actual   string
}

func (e *ContentTypeError) Error() string {
	actual := e.Actual
	if actual == "" {
		actual = "null"
	}
	return fmt.Sprintf("Content type not allowed. Expected %s, got %s", e.Expected, actual)
}

// SizeError reports a request whose declared byte length exceeds the grant's
// size ceiling.
type SizeError struct {
	Limit  int64
	Actual int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("File too large. Maximum size: %d bytes, got: %d bytes", e.Limit, e.Actual)
}

// StoreError carries an HTTP-style status code from a storage backend.
// The code is used verbatim as the outer response status.
type StoreError struct {
	Code    int
	Message string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage error %d: %s", e.Code, e.Message)
}
