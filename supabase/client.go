// Package supabase implements uploadgate.ObjectStore against the Supabase
// Storage REST API.
package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/makelab/uploadgate"
)

// Client talks to a single bucket of a Supabase Storage service using the
// service-role key. It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	base   string
	bucket string
}

// apiError mirrors the JSON error body the storage API returns.
type apiError struct {
	ErrorCode string `json:"error"`
	Message   string `json:"message"`
}

// signResponse mirrors the JSON body of a successful sign call.
type signResponse struct {
	SignedURL string `json:"signedURL"`
}

// New creates a client for the given Supabase project URL, service-role
// key, and bucket.
func New(baseURL, serviceKey, bucket string) *Client {
	base := strings.TrimSuffix(baseURL, "/") + "/storage/v1"
	return &Client{
		http: resty.New().
			SetBaseURL(base).
			SetAuthToken(serviceKey),
		base:   base,
		bucket: bucket,
	}
}

// Upload stores content at the given path in the bucket. Overwrite is
// disabled: an existing object at the same path fails with
// uploadgate.ErrStorageConflict.
func (c *Client) Upload(ctx context.Context, path string, content io.Reader, opts uploadgate.UploadOptions) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", opts.ContentType).
		SetHeader("Cache-Control", opts.CacheControl).
		SetHeader("x-upsert", "false").
		SetBody(content).
		SetError(&apiErr).
		Post(c.objectPath("/object", path))
	if err != nil {
		return fmt.Errorf("upload %s: %w: %s", path, uploadgate.ErrStorage, err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK || resp.StatusCode() == http.StatusCreated:
		return nil
	case resp.StatusCode() == http.StatusConflict:
		return fmt.Errorf("upload %s: %w", path, uploadgate.ErrStorageConflict)
	default:
		return fmt.Errorf("upload %s: %w: %s", path, uploadgate.ErrStorage, errorMessage(resp, apiErr))
	}
}

// CreateSignedURL mints a signed URL for reading the object at path, valid
// for the given duration.
func (c *Client) CreateSignedURL(ctx context.Context, path string, expires time.Duration) (string, error) {
	var (
		result  signResponse
		apiErr  apiError
		request = map[string]int{"expiresIn": int(expires.Seconds())}
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&result).
		SetError(&apiErr).
		Post(c.objectPath("/object/sign", path))
	if err != nil {
		return "", fmt.Errorf("sign %s: %w: %s", path, uploadgate.ErrStorage, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("sign %s: %w: %s", path, uploadgate.ErrStorage, errorMessage(resp, apiErr))
	}

	if result.SignedURL == "" {
		return "", fmt.Errorf("sign %s: %w: empty signed url in response", path, uploadgate.ErrStorage)
	}

	// The API returns a path relative to the storage root.
	return c.base + result.SignedURL, nil
}

// objectPath builds the request path for an object key. File names keep
// every non-whitespace character, so each segment is escaped to stop
// metacharacters like # or % from changing the addressed key.
func (c *Client) objectPath(prefix, path string) string {
	segments := strings.Split(path, "/")
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return prefix + "/" + url.PathEscape(c.bucket) + "/" + strings.Join(escaped, "/")
}

func errorMessage(resp *resty.Response, apiErr apiError) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return resp.Status()
}
