package uploadgate_test

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/makelab/uploadgate"
)

// MockObjectStore is a mock implementation of uploadgate.ObjectStore.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, path string, content io.Reader, opts uploadgate.UploadOptions) error {
	args := m.Called(ctx, path, content, opts)
	return args.Error(0)
}

func (m *MockObjectStore) CreateSignedURL(ctx context.Context, path string, expires time.Duration) (string, error) {
	args := m.Called(ctx, path, expires)
	return args.String(0), args.Error(1)
}

var modelPathRe = regexp.MustCompile(`^uploads/u1/p1/[0-9a-f-]{36}_Part_A\.stl$`)

func newService(t *testing.T, store *MockObjectStore) *uploadgate.GatewayService {
	t.Helper()
	svc, err := uploadgate.NewGatewayService(store, uploadgate.ServiceConfig{})
	assert.NoError(t, err)
	return svc
}

func TestNewGatewayService_NilStore(t *testing.T) {
	_, err := uploadgate.NewGatewayService(nil, uploadgate.ServiceConfig{})
	assert.Error(t, err)
}

func TestUpload_Success(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	store.On("Upload", mock.Anything, mock.MatchedBy(func(p string) bool {
		return modelPathRe.MatchString(p)
	}), mock.Anything, uploadgate.UploadOptions{
		ContentType:  "model/stl",
		CacheControl: "3600",
	}).Return(nil)

	store.On("CreateSignedURL", mock.Anything, mock.MatchedBy(func(p string) bool {
		return modelPathRe.MatchString(p)
	}), 7*24*time.Hour).Return("https://store.example.com/signed/abc", nil)

	file := uploadgate.File{Name: "Part A.stl", ContentType: "model/stl", Size: 10240}
	result, err := svc.Upload(context.Background(), "u1", "p1", file, strings.NewReader("solid part"))

	assert.NoError(t, err)
	assert.Regexp(t, modelPathRe, result.Path)
	assert.Equal(t, "https://store.example.com/signed/abc", result.URL)
	store.AssertExpectations(t)
}

func TestUpload_VideoScope(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	store.On("Upload", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "uploads/u1/gallery_videos/reel/")
	}), mock.Anything, mock.Anything).Return(nil)
	store.On("CreateSignedURL", mock.Anything, mock.Anything, mock.Anything).
		Return("https://store.example.com/signed/vid", nil)

	file := uploadgate.File{Name: "clip.mp4", ContentType: "video/mp4", Size: 2048}
	result, err := svc.Upload(context.Background(), "u1", uploadgate.VideoScope("reel"), file, strings.NewReader("data"))

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Path, "uploads/u1/gallery_videos/reel/"))
	store.AssertExpectations(t)
}

func TestUpload_MissingFile(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	_, err := svc.Upload(context.Background(), "u1", "p1", uploadgate.File{}, nil)

	assert.ErrorIs(t, err, uploadgate.ErrMissingFile)
	store.AssertNotCalled(t, "Upload")
}

func TestUpload_MissingScope(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	file := uploadgate.File{Name: "part.stl", ContentType: "model/stl"}
	_, err := svc.Upload(context.Background(), "u1", "", file, strings.NewReader("x"))

	assert.ErrorIs(t, err, uploadgate.ErrMissingScope)
	store.AssertNotCalled(t, "Upload")
}

func TestUpload_StoreConflict(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(uploadgate.ErrStorageConflict)

	file := uploadgate.File{Name: "part.stl", ContentType: "model/stl"}
	_, err := svc.Upload(context.Background(), "u1", "p1", file, strings.NewReader("x"))

	assert.ErrorIs(t, err, uploadgate.ErrStorageConflict)
	store.AssertNotCalled(t, "CreateSignedURL")
}

func TestUpload_SignFailureLeavesObject(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("CreateSignedURL", mock.Anything, mock.Anything, mock.Anything).
		Return("", uploadgate.ErrStorage)

	file := uploadgate.File{Name: "part.stl", ContentType: "model/stl"}
	_, err := svc.Upload(context.Background(), "u1", "p1", file, strings.NewReader("x"))

	assert.ErrorIs(t, err, uploadgate.ErrStorage)
	// No compensating delete: the stored object stays behind.
	store.AssertNotCalled(t, "Delete")
	store.AssertExpectations(t)
}

func TestUpload_TwoUploadsSameNameNeverCollide(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	var paths []string
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			paths = append(paths, args.String(1))
		}).Return(nil)
	store.On("CreateSignedURL", mock.Anything, mock.Anything, mock.Anything).
		Return("https://store.example.com/signed", nil)

	file := uploadgate.File{Name: "part.stl", ContentType: "model/stl"}
	for i := 0; i < 2; i++ {
		_, err := svc.Upload(context.Background(), "u1", "p1", file, strings.NewReader("x"))
		assert.NoError(t, err)
	}

	assert.Len(t, paths, 2)
	assert.NotEqual(t, paths[0], paths[1])
}

func TestUpload_CancelledContext(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file := uploadgate.File{Name: "part.stl", ContentType: "model/stl"}
	_, err := svc.Upload(ctx, "u1", "p1", file, strings.NewReader("x"))

	assert.ErrorIs(t, err, context.Canceled)
	store.AssertNotCalled(t, "Upload")
}

func TestCreateDownloadURL_Success(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	store.On("CreateSignedURL", mock.Anything, "uploads/u1/p1/x.stl", 24*time.Hour).
		Return("https://store.example.com/signed/dl", nil)

	url, err := svc.CreateDownloadURL(context.Background(), "uploads/u1/p1/x.stl")

	assert.NoError(t, err)
	assert.Equal(t, "https://store.example.com/signed/dl", url)
	store.AssertExpectations(t)
}

func TestCreateDownloadURL_MissingPath(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	_, err := svc.CreateDownloadURL(context.Background(), "")

	assert.ErrorIs(t, err, uploadgate.ErrMissingPath)
	store.AssertNotCalled(t, "CreateSignedURL")
}

func TestCreateDownloadURL_StoreError(t *testing.T) {
	store := new(MockObjectStore)
	svc := newService(t, store)

	store.On("CreateSignedURL", mock.Anything, mock.Anything, mock.Anything).
		Return("", uploadgate.ErrStorage)

	_, err := svc.CreateDownloadURL(context.Background(), "uploads/u1/p1/missing.stl")

	assert.ErrorIs(t, err, uploadgate.ErrStorage)
}

func TestServiceConfig_CustomValidity(t *testing.T) {
	store := new(MockObjectStore)
	svc, err := uploadgate.NewGatewayService(store, uploadgate.ServiceConfig{
		DownloadURLValidity: time.Hour,
	})
	assert.NoError(t, err)

	store.On("CreateSignedURL", mock.Anything, "uploads/u1/p1/x.stl", time.Hour).
		Return("https://store.example.com/s", nil)

	_, err = svc.CreateDownloadURL(context.Background(), "uploads/u1/p1/x.stl")
	assert.NoError(t, err)
	store.AssertExpectations(t)
}
