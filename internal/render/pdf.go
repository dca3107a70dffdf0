package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	a4WidthInches  = 11.69
	a4HeightInches = 8.27
)

// PDFRenderer prints self-contained HTML documents to PDF through a headless
// Chromium instance. Every render acquires and releases its own browser
// context, so a failed render never leaks a process handle.
type PDFRenderer struct {
	timeout time.Duration
}

func NewPDFRenderer(timeout time.Duration) *PDFRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PDFRenderer{timeout: timeout}
}

// RenderToFile renders the document A4 landscape, backgrounds on, zero margins,
// and writes the result to outPath.
func (r *PDFRenderer) RenderToFile(ctx context.Context, html, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}

	if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
