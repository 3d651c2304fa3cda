// Package goblin provides a file upload/download gateway guarded by
// signed-constraint bearer tokens.
//
// A token is issued out of band by a trusted party and encodes an
// authorization decision: which file, until when, and under what
// content-type and size constraints. The wire format is
//
//	base64url(JSON(payload)) + "." + base64url(HMAC-SHA256(secret, payloadSegment))
//
// using the unpadded URL-safe alphabet for both segments. VerifyGrant
// authenticates a token and enforces its constraints against the incoming
// request; on success the decoded Payload is the authoritative grant.
//
// # Key Components
//
//   - SignGrant / VerifyGrant: token codec and request-time verification
//   - GrantVerifier: configuration-time choice between the built-in
//     shared-secret path (HMACVerifier) and a custom predicate (VerifierFunc)
//   - GatewayService: upload/download/delete orchestration over a FileStore
//   - FileStore: pluggable object storage (filesystem, S3-compatible)
//
// # Example Usage
//
//	verifier := goblin.NewHMACVerifier(secret)
//	payload, err := verifier.Verify(token, goblin.Request{
//	    ContentType:   r.Header.Get("Content-Type"),
//	    ContentLength: r.ContentLength,
//	})
//	if err != nil {
//	    // reject: malformed, bad signature, expired, or constraint violation
//	}
//	info, err := service.Upload(ctx, payload.FileID(), obj, r.Body)
//
// See the http package for the REST surface and the filesystem and s3
// packages for storage backends.
package goblin
