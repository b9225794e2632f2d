package interfaces

import (
	"context"

	"github.com/ternarybob/quotedoc/internal/models"
)

// RasterOptions controls how a mounted document is rasterized
type RasterOptions struct {
	Scale            float64 // device scale factor (oversampling)
	JPEGQuality      int     // 1-99, lossy
	FailOnImageError bool    // fail when an image cannot be loaded
}

// RenderTarget is a detached, invisible rendering surface owned by one export.
// Release must be called exactly once by the owner; further calls are no-ops.
type RenderTarget interface {
	// ID is the unique handle of this target
	ID() string
	// Mount replaces the target's document with the given markup
	Mount(ctx context.Context, html string) error
	// Rasterize captures the full mounted document as a JPEG
	Rasterize(ctx context.Context, opts RasterOptions) (*models.Raster, error)
	// Release destroys the target
	Release() error
}

// RenderTargetProvider hands out fresh render targets
type RenderTargetProvider interface {
	Acquire(ctx context.Context) (RenderTarget, error)
}

// DocumentSaver delivers a finished document under the given file name
type DocumentSaver interface {
	Save(ctx context.Context, fileName string, data []byte) error
}
