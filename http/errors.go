package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/makelab/uploadgate"
	"github.com/makelab/uploadgate/identity"
)

// HandleError writes the response for a pipeline error based on its type.
// Unclassified errors become a 500 with the underlying message attached
// for diagnostics; nothing is silently swallowed, nothing is retried.
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "err", err)

	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, identity.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, uploadgate.ErrMissingFile):
		WriteError(w, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, uploadgate.ErrMissingScope):
		WriteError(w, http.StatusBadRequest, "Scope identifier is required")
	case errors.Is(err, uploadgate.ErrMissingPath):
		WriteError(w, http.StatusBadRequest, "Storage path is required")
	case errors.As(err, &maxBytesErr):
		WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
	default:
		WriteErrorDetails(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
