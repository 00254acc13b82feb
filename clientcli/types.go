package clientcli

// UploadOptions configures a model file upload.
type UploadOptions struct {
	LocalPath   string
	ProjectID   string
	ContentType string // optional, auto-detect if empty
}

// VideoUploadOptions configures a video upload.
type VideoUploadOptions struct {
	LocalPath   string
	ContextID   string
	ContentType string // optional, auto-detect if empty
}

// UploadResult represents the result of an upload.
type UploadResult struct {
	LocalPath  string `json:"local_path"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	FileName   string `json:"file_name"`
	Size       int64  `json:"size_bytes"`
	FileType   string `json:"file_type"`
	UploadedAt string `json:"uploaded_at"`
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	StoragePath string
	LocalPath   string // empty = derive from storage path, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	StoragePath string `json:"storage_path"`
	LocalPath   string `json:"local_path"`
	URL         string `json:"url"`
	Size        int64  `json:"size_bytes"`
}

// serverUploadResponse mirrors the JSON response from the server.
type serverUploadResponse struct {
	Success    bool   `json:"success"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	FileType   string `json:"fileType"`
	UploadedAt string `json:"uploadedAt"`
}

// serverDownloadResponse mirrors the JSON response for download URL requests.
type serverDownloadResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl"`
}

// serverErrorResponse mirrors the JSON error body from the server.
type serverErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
