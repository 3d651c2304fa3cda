package clientcli_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goblin "github.com/NickBlow/upload-goblin"
	"github.com/NickBlow/upload-goblin/clientcli"
)

const (
	testUploadSecret   = "test-upload-secret"
	testDownloadSecret = "test-download-secret"
)

func newClient(t *testing.T, endpoint string) *clientcli.Client {
	t.Helper()
	client, err := clientcli.New(&clientcli.Config{
		Endpoint:       endpoint,
		UploadSecret:   testUploadSecret,
		DownloadSecret: testDownloadSecret,
	})
	require.NoError(t, err)
	return client
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func bearerToken(t *testing.T, r *http.Request) string {
	t.Helper()
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	require.True(t, found, "expected bearer token")
	return token
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := clientcli.New(nil)
	assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
}

func TestClient_Upload(t *testing.T) {
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/upload/docs/report.txt", r.URL.Path)

		// The grant must verify against the request it authorizes
		payload, err := goblin.VerifyGrant(bearerToken(t, r), testUploadSecret, goblin.Request{
			ContentType:   r.Header.Get("Content-Type"),
			ContentLength: r.ContentLength,
		})
		require.NoError(t, err)
		assert.Equal(t, "docs/report.txt", payload.FileID())

		assert.Equal(t, "text/plain; charset=utf-8", r.Header.Get("Content-Type"))
		assert.Equal(t, "report.txt", r.Header.Get("X-Metadata-File-Name"))
		assert.Equal(t, "42", r.Header.Get("X-Metadata-User-Id"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"file_id":       "docs/report.txt",
			"content_type":  "text/plain; charset=utf-8",
			"etag":          "abc123",
			"size_bytes":    int64(len(body)),
			"metadata":      map[string]string{"User-Id": "42"},
			"last_modified": time.Now().UTC(),
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	result, err := client.Upload(t.Context(), clientcli.UploadOptions{
		LocalPath: writeTempFile(t, "report.txt", "hello world"),
		FileID:    "docs/report.txt",
		Metadata:  map[string]string{"User-Id": "42"},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello world", gotBody)
	assert.Equal(t, "docs/report.txt", result.FileID)
	assert.Equal(t, "abc123", result.ETag)
	assert.Equal(t, int64(11), result.Size)
}

func TestClient_Upload_DerivesFileID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload/report.txt", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"file_id":"report.txt"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	path := writeTempFile(t, "report.txt", "x")
	t.Chdir(filepath.Dir(path))

	result, err := client.Upload(t.Context(), clientcli.UploadOptions{
		LocalPath: "./report.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "report.txt", result.FileID)
}

func TestClient_Upload_Errors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		client := newClient(t, "http://localhost:8080")
		_, err := client.Upload(t.Context(), clientcli.UploadOptions{})
		assert.ErrorIs(t, err, clientcli.ErrEmptyPath)
	})

	t.Run("no upload secret", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:8080"})
		require.NoError(t, err)

		_, err = client.Upload(t.Context(), clientcli.UploadOptions{
			LocalPath: writeTempFile(t, "a.txt", "x"),
		})
		assert.ErrorIs(t, err, clientcli.ErrSecretRequired)
	})

	t.Run("server rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_token","message":"Token expired"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newClient(t, server.URL)
		_, err := client.Upload(t.Context(), clientcli.UploadOptions{
			LocalPath: writeTempFile(t, "a.txt", "x"),
		})
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})
}

func TestClient_Download_ToFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/download/docs/report.txt", r.URL.Path)

		payload, err := goblin.VerifyGrant(bearerToken(t, r), testDownloadSecret, goblin.Request{ContentLength: -1})
		require.NoError(t, err)
		assert.Equal(t, "docs/report.txt", payload.FileID())

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("ETag", `"abc123"`)
		_, _ = w.Write([]byte("file contents"))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	localPath := filepath.Join(t.TempDir(), "out", "report.txt")

	result, body, err := client.Download(t.Context(), clientcli.DownloadOptions{
		FileID:    "docs/report.txt",
		LocalPath: localPath,
	})
	require.NoError(t, err)
	assert.Nil(t, body)

	assert.Equal(t, "abc123", result.ETag)
	assert.Equal(t, "text/plain", result.ContentType)
	assert.Equal(t, int64(13), result.Size)

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(data))
}

func TestClient_Download_ToStdout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "inline", r.URL.Query().Get("disposition"))
		_, _ = w.Write([]byte("streamed"))
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	result, body, err := client.Download(t.Context(), clientcli.DownloadOptions{
		FileID:    "a.txt",
		LocalPath: "-",
		Inline:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, body)
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "streamed", string(data))
	assert.Equal(t, "-", result.LocalPath)
}

func TestClient_Download_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	_, _, err := client.Download(t.Context(), clientcli.DownloadOptions{FileID: "missing.txt", LocalPath: "-"})
	assert.ErrorIs(t, err, clientcli.ErrNotFound)

	var apiErr *clientcli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)

		payload, err := goblin.VerifyGrant(bearerToken(t, r), testUploadSecret, goblin.Request{ContentLength: -1})
		require.NoError(t, err)

		if payload.FileID() == "missing.txt" {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	results, err := client.Delete(t.Context(), clientcli.DeleteOptions{
		FileIDs: []string{"a.txt", "missing.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Deleted)
	assert.NoError(t, results[0].Err)

	assert.False(t, results[1].Deleted)
	assert.ErrorIs(t, results[1].Err, clientcli.ErrNotFound)

	assert.True(t, clientcli.HasDeleteErrors(results))
}

func TestClient_Delete_NoFileIDs(t *testing.T) {
	client := newClient(t, "http://localhost:8080")
	_, err := client.Delete(t.Context(), clientcli.DeleteOptions{})
	assert.ErrorIs(t, err, clientcli.ErrNoFileIDs)
}

func TestClient_PresignDownloadURL(t *testing.T) {
	client := newClient(t, "https://uploads.example.com")

	rawURL, err := client.PresignDownloadURL("docs/report.txt", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "/download/docs/report.txt", u.Path)

	token := u.Query().Get("signature")
	require.NotEmpty(t, token)

	payload, err := goblin.VerifyGrant(token, testDownloadSecret, goblin.Request{ContentLength: -1})
	require.NoError(t, err)
	assert.Equal(t, "docs/report.txt", payload.FileID())
}

func TestNormalizeLocalToFileID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"relative path", "foo/bar.txt", "foo/bar.txt"},
		{"leading dot slash", "./foo/bar.txt", "foo/bar.txt"},
		{"absolute path", "/abs/path/file.txt", "abs/path/file.txt"},
		{"parent traversal", "../sibling/file.txt", "sibling/file.txt"},
		{"double slashes", "foo//bar.txt", "foo/bar.txt"},
		{"just dot", ".", ""},
		{"just parent", "..", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientcli.NormalizeLocalToFileID(tt.input))
		})
	}
}
