package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makelab/uploadgate/clientcli"
)

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &clientcli.JSONFormatter{}, clientcli.NewFormatter(true, false))
	assert.IsType(t, &clientcli.HumanFormatter{}, clientcli.NewFormatter(false, false))
}

func TestHumanFormatter_FormatUpload(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	err := f.FormatUpload(&buf, &clientcli.UploadResult{
		Path: "uploads/u1/ws/t_bracket.stl",
		URL:  "https://store.example.com/signed/abc",
		Size: 2048,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "uploads/u1/ws/t_bracket.stl")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "https://store.example.com/signed/abc")
}

func TestHumanFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{Quiet: true}

	require.NoError(t, f.FormatUpload(&buf, &clientcli.UploadResult{Path: "p"}))
	assert.Empty(t, buf.String())
}

func TestHumanFormatter_FormatDownload(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	err := f.FormatDownload(&buf, &clientcli.DownloadResult{
		StoragePath: "uploads/u1/ws/x.stl",
		LocalPath:   "x.stl",
		Size:        10,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "uploads/u1/ws/x.stl -> x.stl")
}

func TestJSONFormatter_FormatUpload(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	err := f.FormatUpload(&buf, &clientcli.UploadResult{
		Path: "uploads/u1/ws/t.stl",
		Size: 10,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "uploads/u1/ws/t.stl", decoded["path"])
	assert.Equal(t, float64(10), decoded["size_bytes"])
}

func TestJSONFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	require.NoError(t, f.FormatError(&buf, errors.New("boom")))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "boom", decoded["error"])
}

func TestHumanFormatter_FormatProfileList(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	profiles := []clientcli.Profile{
		{Name: "local", Endpoint: "http://localhost:7000", Token: "abcdefghijkl"},
		{Name: "prod", Endpoint: "https://upload.example.com", Token: "mnopqrstuvwx"},
	}

	require.NoError(t, f.FormatProfileList(&buf, profiles, "prod", false))

	out := buf.String()
	assert.Contains(t, out, "local")
	assert.Contains(t, out, "* prod")
	// Tokens are masked by default
	assert.NotContains(t, out, "abcdefghijkl")
	assert.Contains(t, out, "abcd...ijkl")
}

func TestHumanFormatter_FormatProfileShow(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	p := clientcli.Profile{Name: "prod", Endpoint: "https://upload.example.com", Token: "short"}
	require.NoError(t, f.FormatProfileShow(&buf, p, true, false))

	out := buf.String()
	assert.Contains(t, out, "prod (default)")
	assert.Contains(t, out, "********")
	assert.False(t, strings.Contains(out, "short\n"))
}
