package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
)

// A4 at 96 CSS pixels per inch
const (
	ViewportWidth  = 794
	ViewportHeight = 1123
)

var (
	// ErrImageLoad is returned when a document image fails to load
	ErrImageLoad = errors.New("image failed to load")
	// ErrReleased is returned when a released target is used
	ErrReleased = errors.New("render target released")
)

// settleImagesScript resolves once every image has loaded or failed, with the
// sources of the failed ones. Web fonts are awaited too.
const settleImagesScript = `(async () => {
	if (document.fonts && document.fonts.ready) {
		await document.fonts.ready;
	}
	const images = Array.from(document.images);
	const results = await Promise.all(images.map(img => {
		if (img.complete) {
			return Promise.resolve(img.naturalWidth > 0 ? null : img.currentSrc || img.src);
		}
		return new Promise(resolve => {
			img.addEventListener('load', () => resolve(null), { once: true });
			img.addEventListener('error', () => resolve(img.currentSrc || img.src), { once: true });
		});
	}));
	return results.filter(Boolean);
})()`

// Target is one browser tab used as an off-screen render surface
type Target struct {
	id           string
	browserIndex int
	ctx          context.Context
	cancel       context.CancelFunc
	timeout      time.Duration
	logger       arbor.ILogger
	onRelease    func()

	mu       sync.Mutex
	released bool
}

// Compile-time assertion
var _ interfaces.RenderTarget = (*Target)(nil)

// ID returns the unique handle of the tab
func (t *Target) ID() string {
	return t.id
}

// Mount loads about:blank and replaces its document with html
func (t *Target) Mount(ctx context.Context, html string) error {
	if t.isReleased() {
		return ErrReleased
	}

	runCtx, stop := bind(t.ctx, ctx, t.timeout)
	defer stop()

	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(ViewportWidth, ViewportHeight),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to mount document: %w", err)
	}

	t.logger.Debug().
		Str("target_id", t.id).
		Int("html_len", len(html)).
		Msg("Document mounted")

	return nil
}

// Rasterize waits for images to settle and captures the whole document as JPEG
func (t *Target) Rasterize(ctx context.Context, opts interfaces.RasterOptions) (*models.Raster, error) {
	if t.isReleased() {
		return nil, ErrReleased
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	quality := opts.JPEGQuality
	if quality <= 0 || quality >= 100 {
		// 100 would switch the capture to lossless PNG
		quality = 99
	}

	runCtx, stop := bind(t.ctx, ctx, t.timeout)
	defer stop()

	var failed []string
	var data []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(ViewportWidth, ViewportHeight, chromedp.EmulateScale(scale)),
		chromedp.Evaluate(settleImagesScript, &failed, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if len(failed) == 0 {
				return nil
			}
			t.logger.Warn().
				Str("target_id", t.id).
				Strs("sources", failed).
				Msg("Document images failed to load")
			if opts.FailOnImageError {
				return fmt.Errorf("%w: %s", ErrImageLoad, strings.Join(failed, ", "))
			}
			return nil
		}),
		chromedp.FullScreenshot(&data, quality),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize document: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	t.logger.Debug().
		Str("target_id", t.id).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Float64("scale", scale).
		Int("size", len(data)).
		Msg("Document rasterized")

	return &models.Raster{
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
		Scale:  scale,
	}, nil
}

// Release closes the tab. Calls after the first are no-ops.
func (t *Target) Release() error {
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return nil
	}
	t.released = true
	t.mu.Unlock()

	t.cancel()
	if t.onRelease != nil {
		t.onRelease()
	}

	t.logger.Debug().
		Str("target_id", t.id).
		Int("browser_index", t.browserIndex).
		Msg("Render target released")

	return nil
}

func (t *Target) isReleased() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}
