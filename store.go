package goblin

import (
	"context"
	"io"
)

// FileStore defines the storage collaborator for object bytes and their
// metadata. Implementations can use the local filesystem, S3-compatible
// object storage, or any other backend.
//
// All methods accept a context for cancellation and timeout control.
// Implementations should respect context cancellation during long-running
// transfers. Errors should be ErrNotFound for missing objects; backends may
// return *StoreError to surface an HTTP-style status code verbatim.
type FileStore interface {
	// Put stores content under the given file ID together with its
	// content type and metadata, overwriting any existing object.
	// Implementations must stream the reader through without buffering the
	// whole body and should write atomically where the backend allows it.
	Put(ctx context.Context, id string, content io.Reader, obj PutObject) (ObjectInfo, error)

	// Get retrieves a stored object and its recorded attributes. The caller
	// is responsible for closing the returned ReadSeekCloser. Seeking must
	// be supported so the HTTP layer can serve range requests.
	Get(ctx context.Context, id string) (ObjectInfo, io.ReadSeekCloser, error)

	// Delete removes the object and its metadata. Returns ErrNotFound if
	// the object does not exist.
	Delete(ctx context.Context, id string) error
}
