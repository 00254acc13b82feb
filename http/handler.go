package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/makelab/uploadgate"
	"github.com/makelab/uploadgate/identity"
)

// maxFieldSize caps non-file multipart fields (projectId, contextId).
const maxFieldSize = 4096

// Service is the pipeline interface the handlers invoke.
type Service interface {
	Upload(ctx context.Context, userID, scope string, file uploadgate.File, content io.Reader) (uploadgate.UploadResult, error)
	CreateDownloadURL(ctx context.Context, storagePath string) (string, error)
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
	Verifier         identity.Verifier
	CORS             CORSConfig
	MaxModelFileSize int64
	MaxVideoFileSize int64
	ServiceName      string
	Version          string
}

// Handler provides the HTTP handlers of the gateway.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.MaxModelFileSize <= 0 {
		cfg.MaxModelFileSize = uploadgate.MaxModelFileSize
	}
	if cfg.MaxVideoFileSize <= 0 {
		cfg.MaxVideoFileSize = uploadgate.MaxVideoFileSize
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "uploadgate"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler with all gateway routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

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

	r.Use(RequestLogger)
	r.Use(Recoverer)

	r.NotFound(h.handleNotFound)

	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", h.handleTest)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(h.config.Verifier))
			r.With(MaxBodySize(h.config.MaxModelFileSize)).Post("/upload", h.handleUpload)
			r.With(MaxBodySize(h.config.MaxVideoFileSize)).Post("/upload-video", h.handleUploadVideo)
			r.Post("/download", h.handleDownload)
		})
	})

	return r
}

// uploadForm holds the parsed parts of a multipart upload request.
type uploadForm struct {
	file    uploadgate.File
	content *bytes.Buffer
	fields  map[string]string
}

// readUploadForm walks the multipart stream. The accept gate runs against
// the file part headers before any of the file body is read: a rejected
// file never gets buffered.
func readUploadForm(r *http.Request, accept func(name, contentType string) error) (*uploadForm, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("read multipart form: %w", uploadgate.ErrMissingFile)
	}

	form := &uploadForm{fields: make(map[string]string)}

	for {
		part, partErr := mr.NextPart()
		if errors.Is(partErr, io.EOF) {
			break
		}
		if partErr != nil {
			return nil, fmt.Errorf("read multipart form: %w", partErr)
		}

		if part.FileName() == "" {
			value, readErr := io.ReadAll(io.LimitReader(part, maxFieldSize))
			if readErr != nil {
				return nil, fmt.Errorf("read form field %q: %w", part.FormName(), readErr)
			}
			form.fields[part.FormName()] = string(value)
			continue
		}

		// Only the first "file" part counts, like a single-file form.
		if part.FormName() != "file" || form.content != nil {
			continue
		}

		contentType := part.Header.Get("Content-Type")
		if acceptErr := accept(part.FileName(), contentType); acceptErr != nil {
			return nil, acceptErr
		}

		buf := &bytes.Buffer{}
		n, copyErr := io.Copy(buf, part)
		if copyErr != nil {
			return nil, fmt.Errorf("read file part: %w", copyErr)
		}

		form.file = uploadgate.File{
			Name:        part.FileName(),
			ContentType: contentType,
			Size:        n,
		}
		form.content = buf
	}

	if form.content == nil {
		return nil, fmt.Errorf("read multipart form: %w", uploadgate.ErrMissingFile)
	}

	return form, nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	form, err := readUploadForm(r, func(name, _ string) error {
		return uploadgate.ValidateModelFileName(name)
	})
	if err != nil {
		if errors.Is(err, uploadgate.ErrUnsupportedFileType) {
			WriteError(w, http.StatusBadRequest, "Invalid file type. Allowed: "+strings.Join(uploadgate.AllowedModelExtensions, ", "))
			return
		}
		HandleError(w, err)
		return
	}

	projectID := form.fields["projectId"]
	if projectID == "" {
		WriteError(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	result, err := h.service.Upload(r.Context(), id.UID, projectID, form.file, form.content)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, UploadResponse{
		Success:    true,
		Path:       result.Path,
		URL:        result.URL,
		FileName:   form.file.Name,
		FileSize:   form.file.Size,
		FileType:   form.file.ContentType,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
		UserID:     id.UID,
		ProjectID:  projectID,
	})
}

func (h *Handler) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	form, err := readUploadForm(r, func(_, contentType string) error {
		return uploadgate.ValidateVideoType(contentType)
	})
	if err != nil {
		if errors.Is(err, uploadgate.ErrUnsupportedFileType) {
			WriteError(w, http.StatusBadRequest, "Invalid file type. Allowed: "+strings.Join(uploadgate.AllowedVideoTypes, ", "))
			return
		}
		HandleError(w, err)
		return
	}

	contextID := form.fields["contextId"]
	if contextID == "" {
		WriteError(w, http.StatusBadRequest, "A context ID (e.g. gallery item name) is required")
		return
	}

	result, err := h.service.Upload(r.Context(), id.UID, uploadgate.VideoScope(contextID), form.file, form.content)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, UploadResponse{
		Success:    true,
		Path:       result.Path,
		URL:        result.URL,
		FileName:   form.file.Name,
		FileSize:   form.file.Size,
		FileType:   form.file.ContentType,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
		UserID:     id.UID,
		ContextID:  contextID,
	})
}

type downloadRequest struct {
	StoragePath string `json:"storagePath"`
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Storage path is required")
		return
	}

	url, err := h.service.CreateDownloadURL(r.Context(), req.StoragePath)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, DownloadResponse{Success: true, DownloadURL: url})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.config.ServiceName,
		"version":   h.config.Version,
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to " + h.config.ServiceName,
		"endpoints": map[string]string{
			"health":      "GET /health",
			"upload":      "POST /api/upload",
			"uploadVideo": "POST /api/upload-video",
			"download":    "POST /api/download",
		},
		"documentation": "Upload model files and videos to object storage with bearer-token auth",
	})
}

func (h *Handler) handleTest(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "Upload API is working!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": map[string]string{
			"upload": "POST /api/upload",
			"test":   "GET /api/test",
		},
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusNotFound, NotFoundResponse{
		Success:      false,
		Error:        "Route not found",
		RequestedURL: r.URL.RequestURI(),
	})
}

func decodeJSON(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, maxFieldSize))
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return io.EOF
	}
	return json.Unmarshal(data, v)
}
