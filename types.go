package goblin

import (
	"time"
)

// ObjectInfo describes a stored object. Metadata keys are canonical
// kebab-case header names with their X-Metadata- prefix stripped.
type ObjectInfo struct {
	FileID       string            `json:"file_id"`
	ContentType  string            `json:"content_type"`
	Etag         string            `json:"etag"`
	SizeBytes    int64             `json:"size_bytes"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// PutObject carries the attributes stored alongside uploaded bytes.
type PutObject struct {
	ContentType string
	Metadata    map[string]string
}

// Disposition controls the Content-Disposition of a download response.
type Disposition string

const (
	DispositionAttachment Disposition = "attachment"
	DispositionInline     Disposition = "inline"
)

// ParseDisposition maps a query parameter to a Disposition. Anything other
// than "inline" falls back to attachment, the default.
func ParseDisposition(s string) Disposition {
	if s == string(DispositionInline) {
		return DispositionInline
	}
	return DispositionAttachment
}
