package imagestore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, uploadURL string) *Client {
	t.Helper()
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		uploadURL:  uploadURL,
		tmpDir:     t.TempDir(),
	}
}

func tempFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read temp dir: %v", err)
	}
	return len(entries)
}

func TestUpload_Success(t *testing.T) {
	var gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("upload")
		assert.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename

		json.NewEncoder(w).Encode(map[string]string{"url": "http://cdn.test/images/abc.png"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	url, err := client.Upload(context.Background(), []byte("png-bytes"), "funny-cat.png")

	assert.NoError(t, err)
	assert.Equal(t, "http://cdn.test/images/abc.png", url)
	assert.Equal(t, "funny-cat.png", gotFilename)
	assert.Equal(t, 0, tempFileCount(t, client.tmpDir))
}

func TestUpload_PayloadReachesServer(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("upload")
		assert.NoError(t, err)
		defer file.Close()

		got := make([]byte, len(payload)+1)
		n, _ := file.Read(got)
		assert.Equal(t, payload, got[:n])

		json.NewEncoder(w).Encode(map[string]string{"url": "http://cdn.test/images/raw.png"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Upload(context.Background(), payload, "raw.png")
	assert.NoError(t, err)
}

func TestUpload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	url, err := client.Upload(context.Background(), []byte("data"), "cat.png")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Empty(t, url)
	// Temp file is removed on the failure path too
	assert.Equal(t, 0, tempFileCount(t, client.tmpDir))
}

func TestUpload_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Upload(context.Background(), []byte("data"), "cat.png")

	assert.Error(t, err)
	assert.Equal(t, 0, tempFileCount(t, client.tmpDir))
}

func TestUpload_MissingURLInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Upload(context.Background(), []byte("data"), "cat.png")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no url")
}

func TestUpload_CancelledContext(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Upload(ctx, []byte("data"), "cat.png")

	assert.Error(t, err)
	assert.Equal(t, 0, tempFileCount(t, client.tmpDir))
}

func TestSpool_KeepsExtension(t *testing.T) {
	client := newTestClient(t, "http://unused")

	path, err := client.spool([]byte("data"), "cat.png")
	assert.NoError(t, err)
	defer os.Remove(path)

	assert.Equal(t, ".png", filepath.Ext(path))

	contents, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte("data"), contents)
}
