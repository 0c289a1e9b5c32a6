package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emoticon-hub/pkg/config"
)

// Uploader stores a single image payload and returns its public URL.
// Implemented by the HTTP image-store client below and by pkg/s3.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// Client uploads images to the standalone image server as a multipart POST
// with a single "upload" field. The server answers {"url": "..."} on success.
type Client struct {
	httpClient *http.Client
	uploadURL  string
	tmpDir     string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		uploadURL:  cfg.ImageStoreURL,
		tmpDir:     os.TempDir(),
	}
}

// Upload writes the payload to a temporary file first (the transport needs a
// sized body), streams it to the image server and returns the stored URL.
// The temporary file is removed on every exit path. No retries are performed
// here; retry policy belongs to the caller.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	tmpPath, err := c.spool(data, filename)
	if err != nil {
		return "", fmt.Errorf("failed to materialize upload: %w", err)
	}
	defer os.Remove(tmpPath)

	file, err := os.Open(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to open temp file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat temp file: %w", err)
	}

	// Build the multipart envelope around the file so the body has a known
	// length without buffering the payload a second time.
	var prelude bytes.Buffer
	writer := multipart.NewWriter(&prelude)
	if _, err := writer.CreateFormFile("upload", filepath.Base(filename)); err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	trailer := fmt.Sprintf("\r\n--%s--\r\n", writer.Boundary())

	body := io.MultiReader(bytes.NewReader(prelude.Bytes()), file, strings.NewReader(trailer))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = int64(prelude.Len()) + info.Size() + int64(len(trailer))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("image store returned status %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode image store response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("image store response has no url")
	}

	return result.URL, nil
}

func (c *Client) spool(data []byte, filename string) (string, error) {
	tmp, err := os.CreateTemp(c.tmpDir, "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}
