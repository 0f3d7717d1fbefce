package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder for DecodeConfig
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-chat/internal/observability"
)

// Defaults for the Chrome exporter
const (
	DefaultTimeout     = 60 * time.Second
	DefaultScale       = 2.0
	DefaultConcurrency = 2
	// DefaultSelector is the node rasterized for export.
	DefaultSelector = ".resume-document"

	mmPerInch = 25.4
)

// Options configures the Chrome exporter
type Options struct {
	// ChromePath overrides the browser binary; empty uses chromedp's lookup.
	ChromePath string
	Timeout    time.Duration
	// Scale is the device scale factor for the rasterized screenshot.
	Scale float64
	// Concurrency caps simultaneous browser instances.
	Concurrency int64
	Selector    string
	Page        PageSize
}

// Result is an exported document
type Result struct {
	PDF   []byte
	Pages int
	Plan  Plan
}

// ChromeExporter rasterizes the rendered resume in headless Chrome and prints the
// paginated image to PDF.
type ChromeExporter struct {
	opts   Options
	sem    *semaphore.Weighted
	logger *logrus.Entry
}

// NewChromeExporter creates an exporter, filling unset options with defaults.
func NewChromeExporter(opts Options, logger *logrus.Entry) *ChromeExporter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}
	if opts.Page.WidthMM <= 0 || opts.Page.HeightMM <= 0 {
		opts.Page = A4
	}
	if logger == nil {
		logger = observability.Component(nil, "export")
	}
	return &ChromeExporter{
		opts:   opts,
		sem:    semaphore.NewWeighted(opts.Concurrency),
		logger: logger,
	}
}

// Export renders html, rasterizes the resume node, paginates the image and prints the
// pages to PDF.
func (e *ChromeExporter) Export(ctx context.Context, html string) (*Result, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("export slot: %w", err)
	}
	defer e.sem.Release(1)

	start := time.Now()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, e.opts.Timeout)
	defer cancel()

	var shot []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		setContent(html),
		chromedp.WaitReady(e.opts.Selector, chromedp.ByQuery),
		waitForImages(),
		chromedp.ScreenshotScale(e.opts.Selector, e.opts.Scale, &shot, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize resume: %w", err)
	}

	plan, err := planScreenshot(shot, e.opts.Page)
	if err != nil {
		return nil, err
	}
	paged, err := BuildPagedHTML(plan, shot)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		setContent(paged),
		chromedp.WaitReady(SheetSelector, chromedp.ByQuery),
		waitForImages(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(e.opts.Page.WidthMM / mmPerInch).
				WithPaperHeight(e.opts.Page.HeightMM / mmPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}

	cfg, _, _ := image.DecodeConfig(bytes.NewReader(shot))
	e.logger.WithFields(logrus.Fields{
		"pages":        plan.Pages(),
		"image_width":  cfg.Width,
		"image_height": cfg.Height,
		"bytes":        len(pdf),
		"duration":     time.Since(start).String(),
	}).Info("resume exported")

	return &Result{PDF: pdf, Pages: plan.Pages(), Plan: plan}, nil
}

func (e *ChromeExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 1800),
	)
	if e.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.opts.ChromePath))
	}
	return opts
}

// setContent replaces the current frame's document with html.
func setContent(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
	})
}

// waitForImages blocks until every image in the document has decoded.
func waitForImages() chromedp.Action {
	var done bool
	return chromedp.Evaluate(
		`Promise.all(Array.from(document.images).map(img => img.decode().catch(() => null))).then(() => true)`,
		&done,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		},
	)
}

// planScreenshot paginates a PNG screenshot by its pixel size.
func planScreenshot(shot []byte, page PageSize) (Plan, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(shot))
	if err != nil {
		return Plan{}, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return Paginate(cfg.Width, cfg.Height, page)
}
