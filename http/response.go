package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	goblin "github.com/NickBlow/upload-goblin"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError maps verification and storage errors to response statuses:
// 401 for token failures, 413/415 for constraint violations, backend
// StoreError codes verbatim, 404/400 for the storage sentinels, 500 fallback.
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	var storeErr *goblin.StoreError
	if errors.As(err, &storeErr) {
		WriteError(w, storeErr.Code, "storage_error", storeErr.Message)
		return
	}

	switch {
	case errors.Is(err, goblin.ErrTokenMalformed),
		errors.Is(err, goblin.ErrBadSignature),
		errors.Is(err, goblin.ErrTokenExpired),
		errors.Is(err, goblin.ErrMissingExpiry):
		WriteError(w, http.StatusUnauthorized, "invalid_token", err.Error())
		return
	}

	var ctErr *goblin.ContentTypeError
	if errors.As(err, &ctErr) {
		WriteError(w, http.StatusUnsupportedMediaType, "content_type_not_allowed", ctErr.Error())
		return
	}

	var sizeErr *goblin.SizeError
	if errors.As(err, &sizeErr) {
		WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large", sizeErr.Error())
		return
	}

	if errors.Is(err, goblin.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "not_found", "File not found")
		return
	}

	if errors.Is(err, goblin.ErrInvalidInput) {
		WriteError(w, http.StatusBadRequest, "invalid_file_id", "Invalid file id")
		return
	}

	// Default internal error
	WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
