package uploadgate

import (
	"context"
	"io"
	"time"
)

// UploadOptions carries per-object metadata for a store write.
type UploadOptions struct {
	// ContentType is stored as the object's content-type metadata.
	ContentType string
	// CacheControl is the caching hint attached to the object, in seconds.
	CacheControl string
}

// ObjectStore defines the interface to the external object storage service.
// The gateway consumes it, it never implements it: see the supabase package
// for the production client.
//
// All methods accept a context for cancellation and timeout control.
type ObjectStore interface {
	// Upload stores content at the given bucket-relative path.
	//
	// Implementations must refuse to overwrite an existing object and
	// return an error wrapping ErrStorageConflict when the path is already
	// taken. Any other store failure must wrap ErrStorage.
	Upload(ctx context.Context, path string, content io.Reader, opts UploadOptions) error

	// CreateSignedURL mints a time-limited credentialed URL for reading the
	// object at path. The signing call doubles as the existence check: a
	// missing object or denied signing surfaces as an error wrapping
	// ErrStorage.
	CreateSignedURL(ctx context.Context, path string, expires time.Duration) (string, error)
}
