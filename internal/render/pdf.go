package render

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrPDFDisabled is returned when PDF printing is not enabled.
var ErrPDFDisabled = errors.New("render: PDF printing is disabled")

// PDFPrinter prints HTML to PDF with a headless Chrome, the same way a user
// would print the page from a browser. Each call starts its own browser.
type PDFPrinter struct {
	Timeout    time.Duration
	ExecPath   string
	ExtraFlags map[string]any
}

func (p *PDFPrinter) allocOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if p.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.ExecPath))
	}
	for k, v := range p.ExtraFlags {
		opts = append(opts, chromedp.Flag(k, v))
	}
	return opts
}

// Print renders html on an A4 page and returns the PDF bytes.
func (p *PDFPrinter) Print(ctx context.Context, html string) ([]byte, error) {
	if p == nil {
		return nil, ErrPDFDisabled
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, p.allocOptions()...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var out []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			out = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
