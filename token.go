package goblin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Well-known payload keys. Every other key is opaque pass-through data
// returned to the caller but never interpreted by the verifier.
const (
	ClaimFileID          = "fileId"
	ClaimExpiresAt       = "expiresAt"
	ClaimAllowedFileType = "allowedFileType"
	ClaimAllowedMimeType = "allowedMimeType"
	ClaimMaxFileSize     = "maxFileSize"
	ClaimMaxSizeBytes    = "maxSizeBytes"
)

// Payload is the authorization grant carried inside a token. It is a plain
// JSON object so that issuer-defined claims (userId, fileName, ...) survive
// the round trip untouched.
//
// A Payload is immutable once signed: the HMAC covers the literal base64url
// encoding of its JSON serialization, so even a semantically-equivalent
// re-serialization with different key order invalidates the signature.
type Payload map[string]any

// FileID returns the resource identifier the grant applies to, or "" if the
// claim is missing or not a string. The value is opaque here; format rules
// belong to the storage-facing layer.
func (p Payload) FileID() string {
	s, _ := p[ClaimFileID].(string)
	return s
}

// ExpiresAt returns the expiry instant in Unix epoch milliseconds. The
// second return value is false when the claim is absent, which the expiry
// check treats as never-expiring.
func (p Payload) ExpiresAt() (int64, bool) {
	return p.intClaim(ClaimExpiresAt)
}

// ContentTypePattern returns the content-type constraint pattern, preferring
// allowedFileType over allowedMimeType when both are set.
func (p Payload) ContentTypePattern() (string, bool) {
	for _, key := range []string{ClaimAllowedFileType, ClaimAllowedMimeType} {
		if s, ok := p[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// SizeLimit returns the byte-size ceiling, preferring maxFileSize over
// maxSizeBytes when both are set.
func (p Payload) SizeLimit() (int64, bool) {
	for _, key := range []string{ClaimMaxFileSize, ClaimMaxSizeBytes} {
		if n, ok := p.intClaim(key); ok && n != 0 {
			return n, true
		}
	}
	return 0, false
}

// intClaim reads a numeric claim. Decoded tokens carry float64 (encoding/json
// default); payloads built in Go code may carry int or int64.
func (p Payload) intClaim(key string) (int64, bool) {
	switch v := p[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// SignGrant serializes the payload to JSON, base64url-encodes it without
// padding, and appends a base64url-encoded HMAC-SHA256 of the encoded
// segment, producing the wire token:
//
//	base64url(JSON(payload)) + "." + base64url(HMAC-SHA256(secret, payloadSegment))
func SignGrant(payload Payload, secretKey string) (string, error) {
	if secretKey == "" {
		return "", errors.New("sign grant: secret key cannot be empty")
	}
	if payload == nil {
		return "", errors.New("sign grant: payload cannot be nil")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("sign grant: %w", err)
	}

	segment := base64.RawURLEncoding.EncodeToString(raw)
	return segment + "." + signSegment(segment, secretKey), nil
}

// signSegment computes the base64url-encoded HMAC-SHA256 of the UTF-8 bytes
// of an already-encoded payload segment.
func signSegment(payloadSegment, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payloadSegment))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// decodeToken splits a wire token and decodes its payload without judging
// signature validity. Every structural failure collapses into
// ErrTokenMalformed: the caller must not be able to tell why decoding failed,
// only that it did.
func decodeToken(token string) (payloadSegment, signatureSegment string, payload Payload, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", nil, ErrTokenMalformed
	}

	raw, decErr := base64.RawURLEncoding.DecodeString(parts[0])
	if decErr != nil {
		return "", "", nil, ErrTokenMalformed
	}

	var p Payload
	if jsonErr := json.Unmarshal(raw, &p); jsonErr != nil {
		return "", "", nil, ErrTokenMalformed
	}
	// JSON null unmarshals into a nil map without error.
	if p == nil {
		return "", "", nil, ErrTokenMalformed
	}

	return parts[0], parts[1], p, nil
}
