package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	goblin "github.com/NickBlow/upload-goblin"
)

// metadataHeaderPrefix marks request headers that are folded into stored
// object metadata and replayed on download.
const metadataHeaderPrefix = "X-Metadata-"

type Service interface {
	Upload(ctx context.Context, fileID string, obj goblin.PutObject, content io.Reader) (goblin.ObjectInfo, error)
	Download(ctx context.Context, fileID string) (goblin.ObjectInfo, io.ReadSeekCloser, error)
	Delete(ctx context.Context, fileID string) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// UploadVerifier guards PUT and DELETE. Nil means public writes.
	UploadVerifier goblin.GrantVerifier
	// DownloadVerifier guards GET. Nil means public downloads.
	//
	// Grant constraints are enforced against the guarded request itself, and
	// GET requests carry no Content-Type and declare no body length. A
	// download grant minted with a content-type claim will therefore never
	// verify; issue download grants with only fileId and expiresAt.
	DownloadVerifier goblin.GrantVerifier
	// MaxUploadSize is a server-side hard cap on upload bodies in bytes,
	// independent of any per-token size constraint. 0 means no limit.
	MaxUploadSize int64
	CORS          CORSConfig
}

// Handler provides HTTP handlers for the upload/download gateway.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with the gateway routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.UploadVerifier))
		r.Put("/upload/*", h.handleUpload)
		r.Delete("/upload/*", h.handleDelete)
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.DownloadVerifier))
		r.Get("/download/*", h.handleDownload)
	})

	return r
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "*")

	if fileID == "" || !goblin.IsValidFileID(fileID) {
		WriteError(w, http.StatusBadRequest, "invalid_file_id", "Invalid file id")
		return
	}

	// The grant names the one file it authorizes; the path must agree.
	if grant, ok := GrantFromContext(r.Context()); ok && grant.FileID() != fileID {
		WriteError(w, http.StatusForbidden, "grant_mismatch", "Token not valid for this file")
		return
	}

	obj := goblin.PutObject{
		ContentType: r.Header.Get("Content-Type"),
		Metadata:    MetadataFromHeader(r.Header),
	}

	body := io.Reader(r.Body)
	if h.config.MaxUploadSize > 0 {
		body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	info, err := h.service.Upload(r.Context(), fileID, obj, body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Sprintf("Request body exceeds server limit of %d bytes", h.config.MaxUploadSize))
			return
		}
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "*")

	if fileID == "" || !goblin.IsValidFileID(fileID) {
		WriteError(w, http.StatusBadRequest, "invalid_file_id", "Invalid file id")
		return
	}

	info, content, err := h.service.Download(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, goblin.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "not_found", "File not found")
		} else {
			HandleError(w, err)
		}
		return
	}
	defer func() { _ = content.Close() }()

	disposition := goblin.ParseDisposition(r.URL.Query().Get("disposition"))
	filename := info.Metadata["File-Name"]
	if filename == "" {
		filename = path.Base(fileID)
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("ETag", `"`+info.Etag+`"`)
	for key, value := range info.Metadata {
		w.Header().Set(metadataHeaderPrefix+key, value)
	}

	// Empty name: Content-Type is already set and must not be re-sniffed
	// from the file extension.
	http.ServeContent(w, r, "", info.LastModified, content)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "*")

	if fileID == "" || !goblin.IsValidFileID(fileID) {
		WriteError(w, http.StatusBadRequest, "invalid_file_id", "Invalid file id")
		return
	}

	if grant, ok := GrantFromContext(r.Context()); ok && grant.FileID() != fileID {
		WriteError(w, http.StatusForbidden, "grant_mismatch", "Token not valid for this file")
		return
	}

	if err := h.service.Delete(r.Context(), fileID); err != nil {
		if errors.Is(err, goblin.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "not_found", "File not found")
		} else {
			HandleError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MetadataFromHeader folds X-Metadata-* request headers into a metadata map.
// Keys keep net/http's canonical kebab-case form with the prefix stripped:
// "X-Metadata-user-name" arrives canonicalized as "X-Metadata-User-Name" and
// is stored as "User-Name".
func MetadataFromHeader(header http.Header) map[string]string {
	var metadata map[string]string
	for key, values := range header {
		if !strings.HasPrefix(key, metadataHeaderPrefix) || len(values) == 0 {
			continue
		}
		name := strings.TrimPrefix(key, metadataHeaderPrefix)
		if name == "" {
			continue
		}
		if metadata == nil {
			metadata = make(map[string]string)
		}
		metadata[name] = values[0]
	}
	return metadata
}
