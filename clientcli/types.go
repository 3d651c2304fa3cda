package clientcli

import (
	"time"
)

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath   string
	FileID      string            // remote file id, derived from LocalPath if empty
	ContentType string            // optional, auto-detect if empty
	Metadata    map[string]string // sent as X-Metadata-* headers
	TTL         time.Duration     // grant lifetime, DefaultTTL if zero
}

// UploadResult represents the result of uploading a file.
type UploadResult struct {
	LocalPath    string            `json:"local_path"`
	FileID       string            `json:"file_id"`
	ContentType  string            `json:"content_type"`
	ETag         string            `json:"etag"`
	Size         int64             `json:"size_bytes"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	FileID    string
	LocalPath string        // empty = derive from file id, "-" = stdout
	Inline    bool          // request inline content disposition
	TTL       time.Duration // grant lifetime, DefaultTTL if zero
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	FileID      string `json:"file_id"`
	LocalPath   string `json:"local_path"`
	ETag        string `json:"etag"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	FileIDs []string
	TTL     time.Duration // grant lifetime, DefaultTTL if zero
}

// DeleteResult represents the result of deleting a single file.
type DeleteResult struct {
	FileID  string `json:"file_id"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// serverObjectInfo mirrors the JSON response from the server.
type serverObjectInfo struct {
	FileID       string            `json:"file_id"`
	ContentType  string            `json:"content_type"`
	ETag         string            `json:"etag"`
	SizeBytes    int64             `json:"size_bytes"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}
