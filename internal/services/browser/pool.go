package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
)

// ErrPoolNotInitialized is returned by Acquire before InitBrowserPool or after shutdown
var ErrPoolNotInitialized = errors.New("browser pool not initialized")

const defaultUserAgent = "quotedoc/1.0"

// Pool manages a pool of headless Chrome processes and hands out one tab per render.
// Browsers are allocated round-robin.
type Pool struct {
	browsers         []context.Context
	browserCancels   []context.CancelFunc
	allocatorCancels []context.CancelFunc
	mu               sync.Mutex
	maxInstances     int
	currentIndex     int
	activeTargets    atomic.Int64
	logger           arbor.ILogger
	userAgent        string
	requestTimeout   time.Duration
	initialized      bool
}

// PoolConfig holds configuration for the browser pool
type PoolConfig struct {
	MaxInstances   int           `json:"max_instances"`
	UserAgent      string        `json:"user_agent"`
	Headless       bool          `json:"headless"`
	DisableGPU     bool          `json:"disable_gpu"`
	NoSandbox      bool          `json:"no_sandbox"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// Compile-time assertion
var _ interfaces.RenderTargetProvider = (*Pool)(nil)

// NewPool creates a new, uninitialized browser pool
func NewPool(config PoolConfig, logger arbor.ILogger) *Pool {
	return &Pool{
		maxInstances:   config.MaxInstances,
		userAgent:      config.UserAgent,
		requestTimeout: config.RequestTimeout,
		logger:         logger,
	}
}

// InitBrowserPool starts the browser processes
func (p *Pool) InitBrowserPool(config PoolConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return fmt.Errorf("browser pool already initialized")
	}

	if config.MaxInstances <= 0 {
		return fmt.Errorf("max_instances must be greater than 0, got: %d", config.MaxInstances)
	}
	if config.MaxInstances > 20 {
		p.logger.Warn().
			Int("max_instances", config.MaxInstances).
			Msg("Large browser pool size detected - this may consume significant memory")
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	p.maxInstances = config.MaxInstances
	p.userAgent = config.UserAgent
	p.requestTimeout = config.RequestTimeout
	p.browsers = make([]context.Context, 0, p.maxInstances)
	p.browserCancels = make([]context.CancelFunc, 0, p.maxInstances)
	p.allocatorCancels = make([]context.CancelFunc, 0, p.maxInstances)
	p.currentIndex = 0

	p.logger.Info().
		Int("pool_size", p.maxInstances).
		Str("user_agent", p.userAgent).
		Bool("headless", config.Headless).
		Msg("Initializing browser pool")

	successCount := 0
	var lastErr error
	for i := 0; i < p.maxInstances; i++ {
		if err := p.createBrowserInstance(i, config); err != nil {
			lastErr = err
			p.logger.Warn().
				Err(err).
				Int("browser_index", i).
				Int("successful_instances", successCount).
				Msg("Failed to create browser instance")

			if successCount == 0 {
				p.cleanupInstances()
				return fmt.Errorf("failed to create any browser instances, last error: %w", err)
			}
			continue
		}
		successCount++
	}

	if successCount < p.maxInstances {
		p.logger.Warn().
			Int("requested", p.maxInstances).
			Int("created", successCount).
			Err(lastErr).
			Msg("Created fewer browser instances than requested")
		p.maxInstances = successCount
	}

	p.initialized = true
	p.logger.Info().
		Int("browsers_created", len(p.browsers)).
		Int("requested", config.MaxInstances).
		Msg("Browser pool initialized")

	return nil
}

// createBrowserInstance starts one Chrome process and checks it responds
func (p *Pool) createBrowserInstance(index int, config PoolConfig) error {
	startTime := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", config.DisableGPU),
		chromedp.Flag("no-sandbox", config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("font-render-hinting", "none"),
		chromedp.UserAgent(config.UserAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	// Allocate on the browser context itself; a timeout on the first Run would stop the browser
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocatorCancel()
		return fmt.Errorf("failed to start browser instance: %w", err)
	}

	testTimeout := 30 * time.Second
	if config.RequestTimeout > 0 {
		testTimeout = config.RequestTimeout
	}

	testCtx, testCancel := context.WithTimeout(browserCtx, testTimeout)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocatorCancel()
		return fmt.Errorf("browser instance failed startup test: %w", err)
	}

	p.browsers = append(p.browsers, browserCtx)
	p.browserCancels = append(p.browserCancels, browserCancel)
	p.allocatorCancels = append(p.allocatorCancels, allocatorCancel)

	p.logger.Debug().
		Int("browser_index", index).
		Dur("startup_time", time.Since(startTime)).
		Msg("Browser instance created and tested successfully")

	return nil
}

// Acquire opens a new tab on the next browser. The caller owns the returned
// target and must Release it.
func (p *Pool) Acquire(ctx context.Context) (interfaces.RenderTarget, error) {
	p.mu.Lock()
	if !p.initialized || len(p.browsers) == 0 {
		p.mu.Unlock()
		return nil, ErrPoolNotInitialized
	}
	index := p.currentIndex % len(p.browsers)
	p.currentIndex = (p.currentIndex + 1) % len(p.browsers)
	browserCtx := p.browsers[index]
	p.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)

	// The first Run creates the tab. It runs on the tab context itself because
	// chromedp ties the tab's lifetime to the context of that first call.
	if err := ctx.Err(); err != nil {
		tabCancel()
		return nil, err
	}
	open := func() error { return chromedp.Run(tabCtx) }
	if err := openTab(ctx, p.requestTimeout, tabCancel, open); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to open browser tab: %w", err)
	}

	target := &Target{
		id:           uuid.New().String(),
		browserIndex: index,
		ctx:          tabCtx,
		cancel:       tabCancel,
		timeout:      p.requestTimeout,
		logger:       p.logger,
		onRelease:    func() { p.activeTargets.Add(-1) },
	}
	p.activeTargets.Add(1)

	p.logger.Debug().
		Str("target_id", target.id).
		Int("browser_index", index).
		Msg("Render target acquired")

	return target, nil
}

// ShutdownBrowserPool cleans up all browser instances in the pool
func (p *Pool) ShutdownBrowserPool() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		p.logger.Debug().Msg("Browser pool already shut down or never initialized")
		return nil
	}

	startTime := time.Now()
	browserCount := len(p.browsers)

	p.logger.Info().
		Int("browser_count", browserCount).
		Msg("Shutting down browser pool")

	done := make(chan struct{})
	go func() {
		p.cleanupInstances()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		p.logger.Warn().
			Int("browser_count", browserCount).
			Msg("Browser pool shutdown timed out")
	}

	p.initialized = false

	p.logger.Info().
		Int("browsers_shutdown", browserCount).
		Dur("shutdown_time", time.Since(startTime)).
		Msg("Browser pool shut down")

	return nil
}

// cleanupInstances cancels every browser and allocator (must be called with mutex held)
func (p *Pool) cleanupInstances() {
	for i, cancel := range p.browserCancels {
		if cancel != nil {
			cancel()
			p.logger.Debug().
				Int("browser_index", i).
				Msg("Browser context cancelled")
		}
	}

	for i, cancel := range p.allocatorCancels {
		if cancel != nil {
			cancel()
			p.logger.Debug().
				Int("browser_index", i).
				Msg("Browser allocator cancelled")
		}
	}

	p.browsers = nil
	p.browserCancels = nil
	p.allocatorCancels = nil
	p.currentIndex = 0
}

// GetPoolStats returns statistics about the browser pool
func (p *Pool) GetPoolStats() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]interface{}{
		"max_instances":    p.maxInstances,
		"active_instances": len(p.browsers),
		"active_targets":   p.activeTargets.Load(),
		"initialized":      p.initialized,
		"current_index":    p.currentIndex,
	}
}

// IsInitialized returns whether the browser pool has been initialized
func (p *Pool) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// openTab runs open and gives up once caller is done or timeout elapses,
// cancelling the tab so the abandoned open unwinds on its own.
func openTab(caller context.Context, timeout time.Duration, cancelTab context.CancelFunc, open func() error) error {
	done := make(chan error, 1)
	go func() { done <- open() }()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case err := <-done:
		return err
	case <-caller.Done():
		cancelTab()
		return caller.Err()
	case <-expired:
		cancelTab()
		return context.DeadlineExceeded
	}
}

// bind derives a context from the tab that is also cancelled by caller,
// and bounded by timeout when positive. chromedp actions must run on a
// context derived from the tab.
func bind(tab, caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(tab)
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
		inner := cancel
		cancel = func() {
			cancelTimeout()
			inner()
		}
	}
	stopAfter := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stopAfter()
		cancel()
	}
}
