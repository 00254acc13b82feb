package clientcli_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makelab/uploadgate/clientcli"
)

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &clientcli.Config{
			Endpoint: "http://localhost:7000",
			Token:    "test-token",
		}

		client, err := clientcli.New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("nil config", func(t *testing.T) {
		client, err := clientcli.New(nil)
		require.ErrorIs(t, err, clientcli.ErrConfigRequired)
		assert.Nil(t, client)
	})

	t.Run("empty endpoint uses default", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Token: "t"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClient_Upload(t *testing.T) {
	t.Run("successful upload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/upload", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "ws", r.FormValue("projectId"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer func() { _ = file.Close() }()
			assert.Equal(t, "bracket.stl", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":    true,
				"path":       "uploads/u1/ws/t_bracket.stl",
				"url":        "https://store.example.com/signed/abc",
				"fileName":   "bracket.stl",
				"fileSize":   12,
				"fileType":   "application/octet-stream",
				"uploadedAt": "2026-01-02T15:04:05Z",
				"userId":     "u1",
				"projectId":  "ws",
			})
		}))
		defer server.Close()

		client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "test-token"})
		require.NoError(t, err)

		localPath := writeTempFile(t, "bracket.stl", "solid bracket")
		result, err := client.Upload(context.Background(), clientcli.UploadOptions{
			LocalPath: localPath,
			ProjectID: "ws",
		})
		require.NoError(t, err)

		assert.Equal(t, "uploads/u1/ws/t_bracket.stl", result.Path)
		assert.Equal(t, "https://store.example.com/signed/abc", result.URL)
		assert.Equal(t, "bracket.stl", result.FileName)
		assert.Equal(t, int64(12), result.Size)
	})

	t.Run("missing local path", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Token: "t"})
		require.NoError(t, err)

		_, err = client.Upload(context.Background(), clientcli.UploadOptions{ProjectID: "ws"})
		assert.ErrorIs(t, err, clientcli.ErrEmptyPath)
	})

	t.Run("missing project id", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Token: "t"})
		require.NoError(t, err)

		_, err = client.Upload(context.Background(), clientcli.UploadOptions{LocalPath: "bracket.stl"})
		assert.ErrorIs(t, err, clientcli.ErrScopeRequired)
	})

	t.Run("server error response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Invalid file type. Allowed: .stl, .obj, .3mf, .step, .stp",
			})
		}))
		defer server.Close()

		client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "t"})
		require.NoError(t, err)

		localPath := writeTempFile(t, "notes.txt", "text")
		_, err = client.Upload(context.Background(), clientcli.UploadOptions{
			LocalPath: localPath,
			ProjectID: "ws",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid file type")
		assert.Contains(t, err.Error(), "400")
	})
}

func TestClient_UploadVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload-video", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "reel", r.FormValue("contextId"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "clip.mp4", header.Filename)
		assert.Equal(t, "video/mp4", header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"path":     "uploads/u1/gallery_videos/reel/t_clip.mp4",
			"url":      "https://store.example.com/signed/vid",
			"fileName": "clip.mp4",
			"fileSize": 4,
			"fileType": "video/mp4",
		})
	}))
	defer server.Close()

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "t"})
	require.NoError(t, err)

	localPath := writeTempFile(t, "clip.mp4", "vvvv")
	result, err := client.UploadVideo(context.Background(), clientcli.VideoUploadOptions{
		LocalPath: localPath,
		ContextID: "reel",
	})
	require.NoError(t, err)
	assert.Equal(t, "uploads/u1/gallery_videos/reel/t_clip.mp4", result.Path)
}

func TestClient_SignedURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/download", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "uploads/u1/ws/x.stl", req["storagePath"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"downloadUrl": "https://store.example.com/signed/dl",
		})
	}))
	defer server.Close()

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "t"})
	require.NoError(t, err)

	url, err := client.SignedURL(context.Background(), "uploads/u1/ws/x.stl")
	require.NoError(t, err)
	assert.Equal(t, "https://store.example.com/signed/dl", url)
}

func TestClient_Download(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/api/download", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"downloadUrl": server.URL + "/object/signed/x.stl",
		})
	})
	mux.HandleFunc("/object/signed/x.stl", func(w http.ResponseWriter, r *http.Request) {
		// The signed URL is the authorization; the gateway token must not
		// reach the storage host.
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("solid bracket"))
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "t"})
	require.NoError(t, err)

	localPath := filepath.Join(t.TempDir(), "out.stl")
	result, body, err := client.Download(context.Background(), clientcli.DownloadOptions{
		StoragePath: "uploads/u1/ws/x.stl",
		LocalPath:   localPath,
	})
	require.NoError(t, err)
	assert.Nil(t, body)
	assert.Equal(t, localPath, result.LocalPath)
	assert.Equal(t, int64(len("solid bracket")), result.Size)

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "solid bracket", string(data))
}

func TestClient_Download_DerivesLocalPath(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/api/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"downloadUrl": server.URL + "/object/signed/part.stl",
		})
	})
	mux.HandleFunc("/object/signed/part.stl", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	// Run in a temp working directory so the derived file lands there
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "t"})
	require.NoError(t, err)

	result, _, err := client.Download(context.Background(), clientcli.DownloadOptions{
		StoragePath: "uploads/u1/ws/part.stl",
	})
	require.NoError(t, err)
	assert.Equal(t, "part.stl", result.LocalPath)
}
