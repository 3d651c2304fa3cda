// Package s3 provides an S3-compatible storage backend for the gateway,
// built on the MinIO client. Object metadata rides with the object as
// user-defined metadata; no separate catalog is kept.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	goblin "github.com/NickBlow/upload-goblin"
)

// Config holds connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

// Store provides object storage operations against a single bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New creates a Store and verifies that the configured bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	endpoint, secure, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("new s3 store: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("new s3 store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("new s3 store: check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("new s3 store: bucket does not exist: %s", cfg.Bucket)
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// normalizeEndpoint accepts either "minio:9000" or a full
// "http(s)://minio:9000" URL and returns the host plus whether to use TLS.
// A bare host:port defaults to insecure, matching local MinIO setups.
func normalizeEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, errors.New("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, errors.New("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	return raw, false, nil
}

// Put streams content into the bucket. Size -1 lets the client pick a
// multipart strategy so the body is never buffered whole.
func (s *Store) Put(ctx context.Context, id string, content io.Reader, obj goblin.PutObject) (goblin.ObjectInfo, error) {
	upload, err := s.client.PutObject(ctx, s.bucket, id, content, -1, minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		UserMetadata: obj.Metadata,
	})
	if err != nil {
		return goblin.ObjectInfo{}, wrapMinioError(err)
	}

	return goblin.ObjectInfo{
		FileID:       id,
		ContentType:  obj.ContentType,
		Etag:         upload.ETag,
		SizeBytes:    upload.Size,
		Metadata:     obj.Metadata,
		LastModified: upload.LastModified,
	}, nil
}

// Get stats and opens an object. The returned minio object supports Seek,
// which the HTTP layer relies on for range requests.
func (s *Store) Get(ctx context.Context, id string) (goblin.ObjectInfo, io.ReadSeekCloser, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, id, minio.StatObjectOptions{})
	if err != nil {
		return goblin.ObjectInfo{}, nil, wrapMinioError(err)
	}

	object, err := s.client.GetObject(ctx, s.bucket, id, minio.GetObjectOptions{})
	if err != nil {
		return goblin.ObjectInfo{}, nil, wrapMinioError(err)
	}

	return goblin.ObjectInfo{
		FileID:       id,
		ContentType:  stat.ContentType,
		Etag:         stat.ETag,
		SizeBytes:    stat.Size,
		Metadata:     canonicalMetadata(stat.UserMetadata),
		LastModified: stat.LastModified,
	}, object, nil
}

// Delete removes an object. Returns goblin.ErrNotFound if it does not
// exist; RemoveObject alone would succeed silently.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, id, minio.StatObjectOptions{}); err != nil {
		return wrapMinioError(err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return wrapMinioError(err)
	}

	return nil
}

// canonicalMetadata restores canonical header casing on user metadata keys,
// which S3 backends return in varying case.
func canonicalMetadata(userMetadata map[string]string) map[string]string {
	if len(userMetadata) == 0 {
		return nil
	}
	metadata := make(map[string]string, len(userMetadata))
	for key, value := range userMetadata {
		metadata[http.CanonicalHeaderKey(key)] = value
	}
	return metadata
}

// wrapMinioError maps S3 errors onto the gateway's error model: missing
// keys become ErrNotFound, everything else keeps its backend status code.
func wrapMinioError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return goblin.ErrNotFound
	}
	if resp.StatusCode != 0 {
		return &goblin.StoreError{Code: resp.StatusCode, Message: resp.Message}
	}
	return err
}
