package clientcli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout is the default HTTP client timeout. Uploads of large
// videos over slow links need headroom.
const DefaultTimeout = 5 * time.Minute

// Client performs operations against an uploadgate server. Signed URLs
// carry their own authorization, so object fetches go through a separate
// client that never sends the gateway bearer token to the storage host.
type Client struct {
	config *Config
	http   *resty.Client
	fetch  *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
		c.fetch.SetTimeout(timeout)
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply defaults
	cfg = cfg.WithDefaults()

	// Normalize endpoint URL (remove trailing slash)
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config: &Config{
			Endpoint: endpoint,
			Token:    cfg.Token,
		},
		http: resty.New().
			SetBaseURL(endpoint).
			SetAuthToken(cfg.Token).
			SetTimeout(DefaultTimeout),
		fetch: resty.New().
			SetTimeout(DefaultTimeout),
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload uploads a model file to the server under the given project.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("upload: %w", ErrScopeRequired)
	}
	return c.uploadFile(ctx, "/api/upload", opts.LocalPath, opts.ContentType, map[string]string{
		"projectId": opts.ProjectID,
	})
}

// UploadVideo uploads a video to the server under the given gallery context.
func (c *Client) UploadVideo(ctx context.Context, opts VideoUploadOptions) (*UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload video: %w", ErrEmptyPath)
	}
	if opts.ContextID == "" {
		return nil, fmt.Errorf("upload video: %w", ErrScopeRequired)
	}
	return c.uploadFile(ctx, "/api/upload-video", opts.LocalPath, opts.ContentType, map[string]string{
		"contextId": opts.ContextID,
	})
}

func (c *Client) uploadFile(ctx context.Context, endpoint, localPath, contentType string, fields map[string]string) (*UploadResult, error) {
	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Auto-detect content type if not provided
	if contentType == "" {
		contentType = detectContentType(localPath)
	}

	var result serverUploadResponse
	var apiErr serverErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", filepath.Base(localPath), contentType, file).
		SetMultipartFormData(fields).
		SetResult(&result).
		SetError(&apiErr).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, serverError(resp, &apiErr)
	}

	return &UploadResult{
		LocalPath:  localPath,
		Path:       result.Path,
		URL:        result.URL,
		FileName:   result.FileName,
		Size:       result.FileSize,
		FileType:   result.FileType,
		UploadedAt: result.UploadedAt,
	}, nil
}

// SignedURL asks the server for a fresh signed download URL for a stored object.
func (c *Client) SignedURL(ctx context.Context, storagePath string) (string, error) {
	if storagePath == "" {
		return "", fmt.Errorf("signed url: %w", ErrEmptyPath)
	}

	var result serverDownloadResponse
	var apiErr serverErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"storagePath": storagePath}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/download")
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", serverError(resp, &apiErr)
	}

	if result.DownloadURL == "" {
		return "", fmt.Errorf("server returned no download URL")
	}

	return result.DownloadURL, nil
}

// Download fetches a stored object through a fresh signed URL.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser
// and must be closed by the caller. Otherwise, the content is written to
// the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	signedURL, err := c.SignedURL(ctx, opts.StoragePath)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.fetch.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(signedURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch object: %w", err)
	}

	body := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		data, _ := io.ReadAll(body)
		_ = body.Close()
		return nil, nil, fmt.Errorf("fetch object: server returned %d: %s", resp.StatusCode(), strings.TrimSpace(string(data)))
	}

	result := &DownloadResult{
		StoragePath: opts.StoragePath,
		URL:         signedURL,
		Size:        resp.RawResponse.ContentLength,
	}

	// If stdout requested, return the body for the caller to handle
	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, body, nil
	}

	// Determine local path
	localPath := opts.LocalPath
	if localPath == "" {
		localPath = path.Base(opts.StoragePath)
	}
	result.LocalPath = localPath

	// Create parent directories if needed
	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, body)
	_ = body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// serverError builds an error from a non-200 server response.
func serverError(resp *resty.Response, apiErr *serverErrorResponse) error {
	if apiErr != nil && apiErr.Error != "" {
		if apiErr.Details != "" {
			return fmt.Errorf("server returned %d: %s (%s)", resp.StatusCode(), apiErr.Error, apiErr.Details)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode(), apiErr.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
}

// detectContentType guesses the MIME type from the file extension.
func detectContentType(localPath string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
