package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// maxHostedResponse caps how much of a conversion response is read (64MB).
const maxHostedResponse = 64 << 20

// HostedConfig configures the hosted conversion service backend.
type HostedConfig struct {
	// Endpoint is the full conversion URL, e.g. "https://api.example.com/convert".
	Endpoint string
	// APIKey is sent as a bearer token. The backend is only placed in the
	// chain when a key is configured.
	APIKey string
	// Timeout bounds one conversion round trip. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Configured reports whether the hosted backend can be used at all.
func (c HostedConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// HostedBackend uploads the document to a hosted HTTP conversion API and
// writes the returned PDF into the job's output directory.
type HostedBackend struct {
	cfg    HostedConfig
	client *http.Client
}

// NewHostedBackend creates the backend. The HTTP client carries the
// configured timeout so a stalled service cannot hang a job.
func NewHostedBackend(cfg HostedConfig) *HostedBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HostedBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (b *HostedBackend) Name() string { return "hosted" }

// Render uploads the input as multipart form data and stores the response
// body as the artifact. Any non-2xx status is a failure.
func (b *HostedBackend) Render(ctx context.Context, job Job) (string, error) {
	body, contentType, err := multipartBody(job.InputPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("hosted request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hosted request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("hosted conversion status %d", resp.StatusCode)
	}

	artifact := job.ExpectedArtifact()
	out, err := os.Create(artifact) // #nosec G304 -- path derived from the job workdir
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(resp.Body, maxHostedResponse)); err != nil {
		_ = os.Remove(artifact)
		return "", fmt.Errorf("read hosted response: %w", err)
	}
	return artifact, nil
}

// multipartBody builds the upload body with the document under field "file".
func multipartBody(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path) // #nosec G304 -- input path supplied by the pipeline
	if err != nil {
		return nil, "", fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("multipart: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("multipart copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("multipart close: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
