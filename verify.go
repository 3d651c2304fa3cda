package goblin

import (
	"crypto/hmac"
	"strings"
	"time"
)

// Request carries the request attributes a grant's constraints are enforced
// against. ContentType is the declared media type, "" when the header is
// absent. ContentLength is the declared body size in bytes; negative means
// the request did not declare one.
type Request struct {
	ContentType   string
	ContentLength int64
}

// VerifyGrant authenticates a wire token against the shared secret and
// enforces the embedded constraints against the request. Checks run strictly
// in order and the first failure short-circuits:
//
//  1. format    -> ErrTokenMalformed
//  2. signature -> ErrBadSignature (constant-time compare)
//  3. expiry    -> ErrTokenExpired (absent expiresAt passes)
//  4. content type constraint -> *ContentTypeError
//  5. size constraint         -> *SizeError
//
// On success the decoded Payload is the authoritative grant. VerifyGrant
// performs no I/O and has no shared state; it is safe to call from any
// number of concurrent request handlers.
func VerifyGrant(token, secretKey string, req Request) (Payload, error) {
	payloadSegment, signatureSegment, payload, err := decodeToken(token)
	if err != nil {
		return nil, err
	}

	expected := signSegment(payloadSegment, secretKey)
	if !hmac.Equal([]byte(expected), []byte(signatureSegment)) {
		return nil, ErrBadSignature
	}

	if expiresAt, ok := payload.ExpiresAt(); ok && time.Now().UnixMilli() > expiresAt {
		return nil, ErrTokenExpired
	}

	if pattern, ok := payload.ContentTypePattern(); ok {
		if !MatchContentType(req.ContentType, pattern) {
			return nil, &ContentTypeError{Expected: pattern, Actual: req.ContentType}
		}
	}

	if limit, ok := payload.SizeLimit(); ok && req.ContentLength > limit {
		return nil, &SizeError{Limit: limit, Actual: req.ContentLength}
	}

	return payload, nil
}

// MatchContentType reports whether a declared content type satisfies a grant
// pattern. An absent ("") actual never matches, even under a wildcard: once
// a constraint exists, an explicit declaration is required. "*" and "*/*"
// match any present type; "image/*" style patterns match by major type;
// anything else is exact string equality.
func MatchContentType(actual, pattern string) bool {
	if actual == "" {
		return false
	}
	if pattern == "*" || pattern == "*/*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(actual, prefix+"/")
	}
	return actual == pattern
}

// GrantVerifier decides whether a bearer token authorizes a request. The two
// implementations are HMACVerifier (shared-secret path) and VerifierFunc
// (custom predicate path); the choice is made once at configuration time.
type GrantVerifier interface {
	Verify(token string, req Request) (Payload, error)
}

// HMACVerifier is the built-in shared-secret verifier. The secret is carried
// explicitly rather than read from ambient state so the verifier stays a
// pure function of its inputs.
type HMACVerifier struct {
	secretKey string

	// RequireExpiry rejects grants without an expiresAt claim. Off by
	// default: a grant without expiry is treated as never-expiring, matching
	// issuers that omit the claim deliberately.
	RequireExpiry bool
}

// NewHMACVerifier creates a verifier bound to the given shared secret.
func NewHMACVerifier(secretKey string) *HMACVerifier {
	return &HMACVerifier{secretKey: secretKey}
}

func (v *HMACVerifier) Verify(token string, req Request) (Payload, error) {
	payload, err := VerifyGrant(token, v.secretKey, req)
	if err != nil {
		return nil, err
	}

	if v.RequireExpiry {
		if _, ok := payload.ExpiresAt(); !ok {
			return nil, ErrMissingExpiry
		}
	}

	return payload, nil
}

// VerifierFunc adapts an arbitrary predicate function to GrantVerifier.
type VerifierFunc func(token string, req Request) (Payload, error)

func (f VerifierFunc) Verify(token string, req Request) (Payload, error) {
	return f(token, req)
}
