package sample

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"factory/internal/ports"

	"github.com/cenkalti/backoff/v4"
)

// DefaultClipURL is the stock clip fetched when no URL is configured.
const DefaultClipURL = "https://www.w3schools.com/html/mov_bbb.mp4"

const maxRetries = 3

// Renderer implements ports.Renderer by downloading a stock clip to the
// requested path. It stands in for a real compositor and ignores the row
// payload on purpose. Transient fetch failures are retried with
// exponential backoff; the caller sees a single success or failure.
type Renderer struct {
	url    string
	client *http.Client
}

func New(url string) *Renderer {
	if url == "" {
		url = DefaultClipURL
	}
	return &Renderer{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Renderer) Provider() string { return "sample" }

func (r *Renderer) Render(ctx context.Context, req ports.RenderRequest) error {
	operation := func() error {
		return r.fetch(ctx, req.OutputPath)
	}
	return backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx))
}

func (r *Renderer) fetch(ctx context.Context, outputPath string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	res, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err := fmt.Errorf("clip fetch http %d", res.StatusCode)
		if res.StatusCode >= 400 && res.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	return writeFile(outputPath, res.Body)
}

func writeFile(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return backoff.Permanent(err)
	}

	f, err := os.Create(path)
	if err != nil {
		return backoff.Permanent(err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
