package ports

import "context"

// RenderRequest carries the full row payload; which fields a renderer
// reads is its own business. The artifact must land at OutputPath.
type RenderRequest struct {
	Fields     map[string]string
	OutputPath string
}

// Renderer: implementations (sample, remote, ...). Render blocks until the
// artifact exists at OutputPath or fails; internal retries are allowed but
// a returned error is final for the row.
type Renderer interface {
	Provider() string

	Render(ctx context.Context, req RenderRequest) error
}
