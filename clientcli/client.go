package clientcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	goblin "github.com/NickBlow/upload-goblin"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultTTL is the default grant token lifetime.
	DefaultTTL = 15 * time.Minute

	metadataHeaderPrefix = "X-Metadata-"
)

// Client performs operations against a Goblin gateway. It mints grant
// tokens locally with the configured secrets, so it needs no round trip
// to an issuer.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint:       strings.TrimSuffix(cfg.Endpoint, "/"),
			UploadSecret:   cfg.UploadSecret,
			DownloadSecret: cfg.DownloadSecret,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// uploadGrant mints an upload grant constrained to the given file.
func (c *Client) uploadGrant(fileID, contentType string, size int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	payload := goblin.Payload{
		goblin.ClaimFileID:    fileID,
		goblin.ClaimExpiresAt: time.Now().Add(ttl).UnixMilli(),
	}
	if contentType != "" {
		payload[goblin.ClaimAllowedFileType] = contentType
	}
	if size > 0 {
		payload[goblin.ClaimMaxFileSize] = size
	}

	return goblin.SignGrant(payload, c.config.UploadSecret)
}

// downloadGrant mints a download grant for the given file.
func (c *Client) downloadGrant(fileID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	payload := goblin.Payload{
		goblin.ClaimFileID:    fileID,
		goblin.ClaimExpiresAt: time.Now().Add(ttl).UnixMilli(),
	}

	return goblin.SignGrant(payload, c.config.DownloadSecret)
}

// Upload uploads a single file to the gateway. The grant it mints is
// pinned to the file's content type and exact size.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (UploadResult, error) {
	if opts.LocalPath == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	if c.config.UploadSecret == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrSecretRequired)
	}

	file, err := os.Open(opts.LocalPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return UploadResult{}, fmt.Errorf("stat file: %w", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = detectContentType(opts.LocalPath)
	}

	fileID := opts.FileID
	if fileID == "" {
		fileID = NormalizeLocalToFileID(opts.LocalPath)
	}
	if fileID == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyFileID)
	}

	token, err := c.uploadGrant(fileID, contentType, info.Size(), opts.TTL)
	if err != nil {
		return UploadResult{}, fmt.Errorf("sign grant: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.config.Endpoint+"/upload/"+fileID, file)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = info.Size()

	for key, value := range opts.Metadata {
		req.Header.Set(metadataHeaderPrefix+key, value)
	}
	if _, ok := opts.Metadata["File-Name"]; !ok {
		req.Header.Set(metadataHeaderPrefix+"File-Name", filepath.Base(opts.LocalPath))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return UploadResult{}, parseServerError(resp.StatusCode, body)
	}

	var obj serverObjectInfo
	if err := json.Unmarshal(body, &obj); err != nil {
		return UploadResult{}, fmt.Errorf("parse response: %w", err)
	}

	return UploadResult{
		LocalPath:    opts.LocalPath,
		FileID:       obj.FileID,
		ContentType:  obj.ContentType,
		ETag:         obj.ETag,
		Size:         obj.SizeBytes,
		Metadata:     obj.Metadata,
		LastModified: obj.LastModified,
	}, nil
}

// Download downloads a file from the gateway.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.FileID == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyFileID)
	}

	downloadURL, err := c.downloadURL(opts.FileID, opts.Inline)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	if c.config.DownloadSecret != "" {
		token, grantErr := c.downloadGrant(opts.FileID, opts.TTL)
		if grantErr != nil {
			return nil, nil, fmt.Errorf("sign grant: %w", grantErr)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		FileID:      opts.FileID,
		ETag:        strings.Trim(resp.Header.Get("ETag"), `"`),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	// If stdout requested, return the body for the caller to handle
	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filepath.Base(opts.FileID)
	}
	result.LocalPath = localPath

	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// downloadURL builds the download URL for a file id.
func (c *Client) downloadURL(fileID string, inline bool) (string, error) {
	u, err := url.Parse(c.config.Endpoint + "/download/" + fileID)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	if inline {
		q := u.Query()
		q.Set("disposition", "inline")
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// PresignDownloadURL returns a shareable download URL carrying the grant
// token as a query parameter, for clients that cannot set headers.
func (c *Client) PresignDownloadURL(fileID string, ttl time.Duration) (string, error) {
	if fileID == "" {
		return "", ErrEmptyFileID
	}
	if c.config.DownloadSecret == "" {
		return "", ErrSecretRequired
	}

	token, err := c.downloadGrant(fileID, ttl)
	if err != nil {
		return "", fmt.Errorf("sign grant: %w", err)
	}

	u, err := url.Parse(c.config.Endpoint + "/download/" + fileID)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	q := u.Query()
	q.Set("signature", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Delete deletes one or more files from the gateway.
// Continues on error, collecting results for all file ids.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.FileIDs) == 0 {
		return nil, ErrNoFileIDs
	}
	if c.config.UploadSecret == "" {
		return nil, fmt.Errorf("delete: %w", ErrSecretRequired)
	}

	results := make([]DeleteResult, 0, len(opts.FileIDs))

	for _, fileID := range opts.FileIDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		results = append(results, c.deleteSingle(ctx, fileID, opts.TTL))
	}

	return results, nil
}

// deleteSingle deletes a single file from the gateway. Deletes ride on the
// upload secret since they share the upload route group.
func (c *Client) deleteSingle(ctx context.Context, fileID string, ttl time.Duration) DeleteResult {
	token, err := c.uploadGrant(fileID, "", 0, ttl)
	if err != nil {
		return DeleteResult{FileID: fileID, Err: fmt.Errorf("sign grant: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.Endpoint+"/upload/"+fileID, http.NoBody)
	if err != nil {
		return DeleteResult{FileID: fileID, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return DeleteResult{FileID: fileID, Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return DeleteResult{FileID: fileID, Deleted: true}
	}

	body, _ := io.ReadAll(resp.Body)
	return DeleteResult{FileID: fileID, Err: parseServerError(resp.StatusCode, body)}
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// NormalizeLocalToFileID converts a local path to a clean file id.
// It handles:
//   - Leading "./" is stripped (./foo/bar.txt -> foo/bar.txt)
//   - Leading "/" is stripped (/abs/path/file.txt -> abs/path/file.txt)
//   - Parent traversal is resolved (../sibling/file.txt -> sibling/file.txt)
//   - Multiple slashes are collapsed
//   - Backslashes are converted to forward slashes (Windows)
func NormalizeLocalToFileID(localPath string) string {
	path := filepath.ToSlash(localPath)

	// Clean resolves . and .. segments but uses the OS separator
	path = filepath.Clean(path)
	path = filepath.ToSlash(path)

	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")

	for strings.HasPrefix(path, "../") {
		path = strings.TrimPrefix(path, "../")
	}

	if path == ".." || path == "." {
		return ""
	}

	return path
}

// detectContentType returns MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	return mimeType
}

// parseServerError extracts error details from a server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the grant token is missing or invalid (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the grant does not cover the requested file (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
