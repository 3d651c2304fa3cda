package goblin

import (
	"context"
	"fmt"
	"io"
)

const defaultContentType = "application/octet-stream"

// GatewayService coordinates uploads and downloads against a FileStore.
// It owns file-ID validation and content-type defaulting; authorization is
// decided before it is reached, by a GrantVerifier in the HTTP layer.
type GatewayService struct {
	store FileStore
}

// NewGatewayService creates a GatewayService backed by the given store.
func NewGatewayService(store FileStore) (*GatewayService, error) {
	if store == nil {
		return nil, fmt.Errorf("new gateway service: %w: store cannot be nil", ErrInvalidInput)
	}
	return &GatewayService{store: store}, nil
}

// Upload streams content into storage under the given file ID. The reader is
// passed through to the backend without buffering; backpressure is the
// transport's and the backend's concern.
//
// Error types returned:
//   - ErrInvalidInput: empty or unsafe file ID
//   - context.Canceled or context.DeadlineExceeded: context was cancelled
//   - wrapped storage errors, including *StoreError with a backend status code
func (s *GatewayService) Upload(ctx context.Context, fileID string, obj PutObject, content io.Reader) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, fmt.Errorf("upload: %w", err)
	}

	if !IsValidFileID(fileID) {
		return ObjectInfo{}, fmt.Errorf("upload %q: %w: invalid file id", fileID, ErrInvalidInput)
	}

	if obj.ContentType == "" {
		obj.ContentType = defaultContentType
	}

	info, err := s.store.Put(ctx, fileID, content, obj)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("upload %q: %w", fileID, err)
	}

	return info, nil
}

// Download retrieves a stored object for streaming back to the client.
// The caller must close the returned reader.
func (s *GatewayService) Download(ctx context.Context, fileID string) (ObjectInfo, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, nil, fmt.Errorf("download: %w", err)
	}

	if !IsValidFileID(fileID) {
		return ObjectInfo{}, nil, fmt.Errorf("download %q: %w: invalid file id", fileID, ErrInvalidInput)
	}

	info, content, err := s.store.Get(ctx, fileID)
	if err != nil {
		return ObjectInfo{}, nil, fmt.Errorf("download %q: %w", fileID, err)
	}

	return info, content, nil
}

// Delete removes a stored object and its metadata.
func (s *GatewayService) Delete(ctx context.Context, fileID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if !IsValidFileID(fileID) {
		return fmt.Errorf("delete %q: %w: invalid file id", fileID, ErrInvalidInput)
	}

	if err := s.store.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("delete %q: %w", fileID, err)
	}

	return nil
}
