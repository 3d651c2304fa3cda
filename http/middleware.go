package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	goblin "github.com/NickBlow/upload-goblin"
)

// grantKey is the context key under which the verified grant is stored.
type grantKey struct{}

// GrantFromContext retrieves the verified grant placed by AuthMiddleware.
// The second return value is false on public (unverified) routes.
func GrantFromContext(ctx context.Context) (goblin.Payload, bool) {
	grant, ok := ctx.Value(grantKey{}).(goblin.Payload)
	return grant, ok
}

// ExtractToken returns the bearer token from the Authorization header or,
// failing that, the signature query parameter. Returns "" when neither is
// present.
func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("signature")
}

// AuthMiddleware creates middleware that enforces signed-grant authorization.
// Pass nil to disable verification (public access). On success the decoded
// grant is stored in the request context for handlers to inspect.
func AuthMiddleware(verifier goblin.GrantVerifier) func(http.Handler) http.Handler {
	if verifier == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "missing_token", "Missing authorization token")
				return
			}

			grant, err := verifier.Verify(token, goblin.Request{
				ContentType:   r.Header.Get("Content-Type"),
				ContentLength: r.ContentLength,
			})
			if err != nil {
				HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), grantKey{}, grant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request with a generated request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
