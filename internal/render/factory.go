package render

import (
	"fmt"

	"factory/internal/adapters/render/remote"
	"factory/internal/adapters/render/sample"
	"factory/internal/config"
	"factory/internal/ports"
)

// Renderer is the work executor contract; the pipeline treats it as an
// opaque injected dependency.
type Renderer = ports.Renderer

func NewRenderer(cfg config.Config) (Renderer, error) {
	switch cfg.RendererProvider {
	case "sample":
		return sample.New(cfg.SampleURL), nil

	case "remote":
		if cfg.RendererBaseURL == "" {
			return nil, fmt.Errorf("RENDERER_HTTP_BASEURL is required for the remote renderer")
		}
		return remote.New(cfg.RendererBaseURL), nil

	default:
		return nil, fmt.Errorf("unknown renderer provider: %s", cfg.RendererProvider)
	}
}
