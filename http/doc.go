// Package http provides the HTTP surface of the upload-goblin gateway.
//
// Routes:
//
//	PUT    /upload/{fileID}   store bytes, guarded by the upload verifier
//	DELETE /upload/{fileID}   remove a stored object, same guard
//	GET    /download/{fileID} stream bytes back, optionally guarded
//
// Tokens arrive either as "Authorization: Bearer <token>" or as a
// "signature" query parameter. AuthMiddleware verifies the token against the
// request's declared Content-Type and Content-Length and places the decoded
// grant in the request context; handlers then enforce that the grant's
// fileId matches the path.
//
// X-Metadata-* request headers are folded into the stored object's metadata
// and replayed as response headers on download. The disposition query
// parameter ("inline" or "attachment", default attachment) controls
// Content-Disposition.
//
// Verification failures map to 401, content-type constraint violations to
// 415, size violations to 413. Storage backends returning *goblin.StoreError
// have their code used verbatim as the response status.
//
// # Usage
//
//	verifier := goblin.NewHMACVerifier(secret)
//	cfg := http.HandlerConfig{
//	    UploadVerifier:   verifier,
//	    DownloadVerifier: nil, // public downloads
//	}
//	handler := http.NewHandler(&cfg, service)
//	http.ListenAndServe(":8080", handler.Router())
package http
