package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	v0 "factory/internal/contracts/render/v0"
	"factory/internal/models"
	"factory/internal/ports"
)

// Renderer implements ports.Renderer against an external render service:
// POST the row payload as a v0 spec to /render, stream the artifact bytes
// from the response to OutputPath.
type Renderer struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Renderer {
	return &Renderer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

func (r *Renderer) Provider() string { return "remote" }

func (r *Renderer) Render(ctx context.Context, req ports.RenderRequest) error {
	spec := v0.RenderSpec{
		RecordID: req.Fields[models.ColID],
		Fields:   req.Fields,
	}
	body, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("renderer http %d", res.StatusCode)
	}

	return writeFile(req.OutputPath, res.Body)
}

func writeFile(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
