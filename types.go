package uploadgate

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	// MaxModelFileSize is the transport-layer size ceiling for model file uploads.
	MaxModelFileSize int64 = 50 * 1024 * 1024
	// MaxVideoFileSize is the transport-layer size ceiling for video uploads.
	MaxVideoFileSize int64 = 200 * 1024 * 1024

	// UploadURLValidity is how long the signed URL returned after an upload stays valid.
	UploadURLValidity = 7 * 24 * time.Hour
	// DownloadURLValidity is how long a signed download URL stays valid.
	DownloadURLValidity = 24 * time.Hour

	// CacheControl is the caching hint attached to every stored object, in seconds.
	CacheControl = "3600"

	// DefaultBucket is the single logical bucket all objects live in.
	DefaultBucket = "website-upload"
)

// File describes an uploaded file: its original name, the declared MIME
// type, and the byte size reported by the transport layer. The bytes
// themselves travel separately as an io.Reader and are never persisted
// locally.
type File struct {
	Name        string
	ContentType string
	Size        int64
}

// UploadResult is the outcome of a successful upload: the storage path the
// object was written to and a signed URL for it.
type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// AllowedModelExtensions lists the accepted model file extensions,
// lowercase with leading dot.
var AllowedModelExtensions = []string{".stl", ".obj", ".3mf", ".step", ".stp"}

// AllowedVideoTypes lists the accepted declared MIME types for video uploads.
var AllowedVideoTypes = []string{"video/mp4", "video/mpeg", "video/quicktime", "video/webm"}

// ValidateModelFileName checks that the filename carries one of the allowed
// model file extensions. The compare is case-insensitive on the substring
// after the last dot. Returns ErrUnsupportedFileType otherwise.
func ValidateModelFileName(name string) error {
	ext := strings.ToLower(path.Ext(name))
	for _, allowed := range AllowedModelExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFileType, ext, strings.Join(AllowedModelExtensions, ", "))
}

// ValidateVideoType checks that the declared MIME type is one of the
// allowed video types. Returns ErrUnsupportedFileType otherwise.
func ValidateVideoType(contentType string) error {
	for _, allowed := range AllowedVideoTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFileType, contentType, strings.Join(AllowedVideoTypes, ", "))
}

// VideoScope composes the scope segment for a video upload. Videos are
// grouped under a gallery_videos prefix keyed by the caller-supplied
// context identifier.
func VideoScope(contextID string) string {
	return "gallery_videos/" + contextID
}
