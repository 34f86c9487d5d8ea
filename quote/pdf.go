package quote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper size in inches.
const (
	quotePaperWidth  = 8.27
	quotePaperHeight = 11.69
)

// PDFRenderer converts rendered quote HTML into PDF bytes.
type PDFRenderer interface {
	RenderPDF(html string, ctx context.Context) ([]byte, error)
}

// ChromePDFRenderer prints HTML to PDF through headless Chrome.
// Each call runs its own short-lived browser so no state leaks between
// documents.
type ChromePDFRenderer struct{}

func (r ChromePDFRenderer) RenderPDF(html string, ctx context.Context) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(quotePaperWidth).
				WithPaperHeight(quotePaperHeight).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print quote to pdf %w", err)
	}
	return pdf, nil
}
