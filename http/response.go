package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NotFoundResponse is the JSON envelope for unmatched routes.
type NotFoundResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	RequestedURL string `json:"requestedUrl"`
}

// UploadResponse is the JSON envelope for successful uploads. ProjectID is
// set for model-file uploads, ContextID for video uploads.
type UploadResponse struct {
	Success    bool   `json:"success"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	FileType   string `json:"fileType"`
	UploadedAt string `json:"uploadedAt"`
	UserID     string `json:"userId"`
	ProjectID  string `json:"projectId,omitempty"`
	ContextID  string `json:"contextId,omitempty"`
}

// DownloadResponse is the JSON envelope for successful download requests.
type DownloadResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl"`
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, code int, message string) {
	if err := WriteJSON(w, code, ErrorResponse{Success: false, Error: message}); err != nil {
		slog.Error("failed to encode error response", "err", err)
	}
}

// WriteErrorDetails writes a JSON error response with a diagnostic details field.
func WriteErrorDetails(w http.ResponseWriter, code int, message, details string) {
	if err := WriteJSON(w, code, ErrorResponse{Success: false, Error: message, Details: details}); err != nil {
		slog.Error("failed to encode error response", "err", err)
	}
}
