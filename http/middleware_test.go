package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goblin "github.com/NickBlow/upload-goblin"
	goblinhttp "github.com/NickBlow/upload-goblin/http"
)

func TestExtractToken(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt", nil)
		req.Header.Set("Authorization", "Bearer abc.def")
		assert.Equal(t, "abc.def", goblinhttp.ExtractToken(req))
	})

	t.Run("signature query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt?signature=abc.def", nil)
		assert.Equal(t, "abc.def", goblinhttp.ExtractToken(req))
	})

	t.Run("bearer header wins over query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt?signature=from-query", nil)
		req.Header.Set("Authorization", "Bearer from-header")
		assert.Equal(t, "from-header", goblinhttp.ExtractToken(req))
	})

	t.Run("non-bearer authorization ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Equal(t, "", goblinhttp.ExtractToken(req))
	})

	t.Run("neither present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt", nil)
		assert.Equal(t, "", goblinhttp.ExtractToken(req))
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("nil verifier is public access", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := goblinhttp.GrantFromContext(r.Context())
			assert.False(t, ok, "no grant on public routes")
		})

		mw := goblinhttp.AuthMiddleware(nil)
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt", nil)
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid token stores grant in context", func(t *testing.T) {
		verifier := goblin.NewHMACVerifier(testSecret)
		token, err := goblin.SignGrant(goblin.Payload{"fileId": "a.txt", "userId": "u1"}, testSecret)
		require.NoError(t, err)

		var grant goblin.Payload
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g, ok := goblinhttp.GrantFromContext(r.Context())
			require.True(t, ok)
			grant = g
		})

		mw := goblinhttp.AuthMiddleware(verifier)
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a.txt", grant.FileID())
		assert.Equal(t, "u1", grant["userId"])
	})

	t.Run("missing token rejected before handler", func(t *testing.T) {
		verifier := goblin.NewHMACVerifier(testSecret)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		})

		mw := goblinhttp.AuthMiddleware(verifier)
		req := httptest.NewRequest(http.MethodGet, "/download/a.txt", nil)
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("content-type claim rejects bodyless requests", func(t *testing.T) {
		// Download grants must omit allowedFileType: a GET carries no
		// Content-Type, so the constraint can never be satisfied.
		verifier := goblin.NewHMACVerifier(testSecret)
		token, err := goblin.SignGrant(goblin.Payload{
			goblin.ClaimFileID:          "a.pdf",
			goblin.ClaimAllowedFileType: "application/pdf",
		}, testSecret)
		require.NoError(t, err)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		})

		mw := goblinhttp.AuthMiddleware(verifier)
		req := httptest.NewRequest(http.MethodGet, "/download/a.pdf", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Contains(t, rec.Body.String(), "content_type_not_allowed")
	})

	t.Run("custom predicate dispatch", func(t *testing.T) {
		verifier := goblin.VerifierFunc(func(token string, req goblin.Request) (goblin.Payload, error) {
			if token == "magic" {
				return goblin.Payload{"fileId": "a.txt"}, nil
			}
			return nil, goblin.ErrBadSignature
		})

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		mw := goblinhttp.AuthMiddleware(verifier)

		req := httptest.NewRequest(http.MethodGet, "/download/a.txt?signature=magic", nil)
		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/download/a.txt?signature=wrong", nil)
		rec = httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
