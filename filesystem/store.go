// Package filesystem provides a local-disk storage backend for the gateway.
// Object bytes live under objects/ and their attributes under meta/ as JSON
// sidecars. Writes are atomic (temp file plus rename) with SHA256-based
// etags.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	goblin "github.com/NickBlow/upload-goblin"
)

const (
	objectsDir = "objects"
	metaDir    = "meta"
)

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewFileStore creates a new Store rooted at the given directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStore(root *os.Root) *Store {
	return &Store{root: root}
}

// sidecar is the on-disk metadata record stored next to object bytes.
type sidecar struct {
	ContentType  string            `json:"content_type"`
	Etag         string            `json:"etag"`
	SizeBytes    int64             `json:"size_bytes"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Put atomically stores content and its sidecar metadata, overwriting any
// existing object with the same id.
func (s *Store) Put(ctx context.Context, id string, content io.Reader, obj goblin.PutObject) (goblin.ObjectInfo, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return goblin.ObjectInfo{}, ctxErr
	}

	size, etag, err := s.writeObject(ctx, id, content)
	if err != nil {
		return goblin.ObjectInfo{}, err
	}

	meta := sidecar{
		ContentType:  obj.ContentType,
		Etag:         etag,
		SizeBytes:    size,
		Metadata:     obj.Metadata,
		LastModified: time.Now().UTC(),
	}

	if err := s.writeSidecar(id, meta); err != nil {
		// Keep the tree consistent: an object without its sidecar would be
		// unreadable, so remove the bytes we just wrote.
		if rmErr := s.root.Remove(objectPath(id)); rmErr != nil {
			slog.Warn("failed to remove object after sidecar write failure", "id", id, "err", rmErr)
		}
		return goblin.ObjectInfo{}, err
	}

	return infoFromSidecar(id, meta), nil
}

func (s *Store) writeObject(ctx context.Context, id string, content io.Reader) (int64, string, error) {
	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return 0, "", fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(t.Name()); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	size, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return 0, "", fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return 0, "", fmt.Errorf("could not sync written file: %w", err)
	}

	dest := objectPath(id)
	if err := s.mkdirFor(dest); err != nil {
		return 0, "", err
	}

	if renameErr := s.root.Rename(tmpFile, dest); renameErr != nil {
		return 0, "", fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return size, hex.EncodeToString(h.Sum(nil)), nil
}

func (s *Store) writeSidecar(id string, meta sidecar) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}

	dest := metaPath(id)
	if err := s.mkdirFor(dest); err != nil {
		return err
	}

	tmpFile := tmpFileName()
	t, err := s.root.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("could not open temp file: %w", err)
	}

	_, writeErr := t.Write(raw)
	if closeErr := t.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		if rmErr := s.root.Remove(tmpFile); rmErr != nil {
			slog.Warn("failed to remove tmp file", "err", rmErr)
		}
		return fmt.Errorf("could not write metadata: %w", writeErr)
	}

	if err := s.root.Rename(tmpFile, dest); err != nil {
		return fmt.Errorf("failed to rename metadata file: %w", err)
	}

	return nil
}

// Get opens a stored object for reading. Returns goblin.ErrNotFound if the
// object does not exist.
func (s *Store) Get(ctx context.Context, id string) (goblin.ObjectInfo, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return goblin.ObjectInfo{}, nil, err
	}

	meta, err := s.readSidecar(id)
	if err != nil {
		return goblin.ObjectInfo{}, nil, err
	}

	f, err := s.root.Open(objectPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return goblin.ObjectInfo{}, nil, goblin.ErrNotFound
		}
		return goblin.ObjectInfo{}, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return infoFromSidecar(id, meta), f, nil
}

func (s *Store) readSidecar(id string) (sidecar, error) {
	f, err := s.root.Open(metaPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sidecar{}, goblin.ErrNotFound
		}
		return sidecar{}, fmt.Errorf("failed to open metadata: %w", err)
	}
	defer func() { _ = f.Close() }()

	var meta sidecar
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return sidecar{}, fmt.Errorf("failed to decode metadata: %w", err)
	}

	return meta, nil
}

// Delete removes an object and its sidecar. Returns goblin.ErrNotFound if
// the object does not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(objectPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return goblin.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}

	if err := s.root.Remove(metaPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove metadata sidecar", "id", id, "err", err)
	}

	return nil
}

func (s *Store) mkdirFor(dest string) error {
	dir := filepath.Dir(dest)
	if dir == "." {
		return nil
	}
	if err := s.root.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create intermediate directories: %w", err)
	}
	return nil
}

func infoFromSidecar(id string, meta sidecar) goblin.ObjectInfo {
	return goblin.ObjectInfo{
		FileID:       id,
		ContentType:  meta.ContentType,
		Etag:         meta.Etag,
		SizeBytes:    meta.SizeBytes,
		Metadata:     meta.Metadata,
		LastModified: meta.LastModified,
	}
}

func objectPath(id string) string {
	return filepath.Join(objectsDir, id)
}

func metaPath(id string) string {
	return filepath.Join(metaDir, id+".json")
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
