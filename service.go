package uploadgate

import (
	"context"
	"fmt"
	"io"
	"time"
)

// GatewayService implements the upload and download pipelines on top of an
// injected ObjectStore. It holds no mutable state: every request computes
// its own storage path, so concurrent calls need no coordination.
type GatewayService struct {
	store       ObjectStore
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// ServiceConfig holds configuration options for GatewayService.
type ServiceConfig struct {
	UploadURLValidity   time.Duration // default: 7 days
	DownloadURLValidity time.Duration // default: 24 hours
}

// NewGatewayService creates a GatewayService backed by the given object store.
func NewGatewayService(store ObjectStore, cfg ServiceConfig) (*GatewayService, error) {
	if store == nil {
		return nil, fmt.Errorf("new gateway service: object store is required")
	}

	uploadTTL := cfg.UploadURLValidity
	if uploadTTL <= 0 {
		uploadTTL = UploadURLValidity
	}
	downloadTTL := cfg.DownloadURLValidity
	if downloadTTL <= 0 {
		downloadTTL = DownloadURLValidity
	}

	return &GatewayService{
		store:       store,
		uploadTTL:   uploadTTL,
		downloadTTL: downloadTTL,
	}, nil
}

// Upload validates the inbound file, constructs a unique storage path,
// stores the bytes, and returns the path plus a signed URL valid for the
// configured upload window.
//
// The method performs the following steps:
//  1. Validates input (file presence, scope identifier)
//  2. Sanitizes the original filename and prefixes it with a random UUID
//  3. Stores the content at uploads/{userID}/{scope}/{uniqueName} with the
//     declared content type, a 1 hour caching hint, and overwrite disabled
//  4. Requests a signed URL for the stored path
//
// Failure at either external step aborts the whole operation. Note that the
// store write is not rolled back if only signing fails: the object stays
// behind with no reference returned to the caller.
//
// Error types returned:
//   - ErrMissingFile: the file has no name (nothing was uploaded)
//   - ErrMissingScope: scope is empty
//   - ErrStorageConflict: the computed path already exists (practically
//     unreachable given the random token, but never silently overwritten)
//   - ErrStorage: any other store or signing failure
func (s *GatewayService) Upload(ctx context.Context, userID, scope string, file File, content io.Reader) (UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	if file.Name == "" || content == nil {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrMissingFile)
	}

	if scope == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrMissingScope)
	}

	if userID == "" {
		return UploadResult{}, fmt.Errorf("upload: caller identity is required")
	}

	storagePath := StoragePath(userID, scope, UniqueFileName(file.Name))

	opts := UploadOptions{
		ContentType:  file.ContentType,
		CacheControl: CacheControl,
	}

	if err := s.store.Upload(ctx, storagePath, content, opts); err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", storagePath, err)
	}

	url, err := s.store.CreateSignedURL(ctx, storagePath, s.uploadTTL)
	if err != nil {
		// Stored object is left behind intentionally: no compensating delete.
		return UploadResult{}, fmt.Errorf("upload %s: sign url: %w", storagePath, err)
	}

	return UploadResult{Path: storagePath, URL: url}, nil
}

// CreateDownloadURL returns a signed URL valid for the configured download
// window for reading the object at storagePath.
//
// The path is forwarded verbatim: no existence check is performed up front,
// the signing call itself is the existence and permission check. No
// ownership check binds the path to the requesting identity.
func (s *GatewayService) CreateDownloadURL(ctx context.Context, storagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("create download url: %w", err)
	}

	if storagePath == "" {
		return "", fmt.Errorf("create download url: %w", ErrMissingPath)
	}

	url, err := s.store.CreateSignedURL(ctx, storagePath, s.downloadTTL)
	if err != nil {
		return "", fmt.Errorf("create download url %s: %w", storagePath, err)
	}

	return url, nil
}
