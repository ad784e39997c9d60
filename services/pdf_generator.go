package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// pdfTimeout bounds a single render including Chrome startup.
const pdfTimeout = 30 * time.Second

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns letter portrait with half-inch margins.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "letter",
		MarginTop:       36,
		MarginBottom:    36,
		MarginLeft:      36,
		MarginRight:     36,
	}
}

func (o PDFOptions) paper() (width, height float64) {
	switch o.PageSize {
	case "legal":
		width, height = 8.5, 14.0
	case "A4":
		width, height = 8.27, 11.69
	default:
		width, height = 8.5, 11.0
	}
	if o.PageOrientation == "landscape" {
		width, height = height, width
	}
	return width, height
}

// GeneratePDF prints htmlContent with headless Chrome. CHROME_PATH selects
// the browser binary.
func GeneratePDF(ctx context.Context, htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, pdfTimeout)
	defer cancelTimeout()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	width, height := options.paper()
	var pdfBuf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(float64(options.MarginTop) / 72.0).
				WithMarginBottom(float64(options.MarginBottom) / 72.0).
				WithMarginLeft(float64(options.MarginLeft) / 72.0).
				WithMarginRight(float64(options.MarginRight) / 72.0).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

// WrapHTMLForPDF wraps a report body in a standalone page with print styles.
func WrapHTMLForPDF(title, content string) string {
	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>` + title + `</title>
    <style>
        body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; color: #1f2937; }
        .report-header { border-bottom: 2px solid #c9a84c; margin-bottom: 16pt; }
        h1 { font-size: 11pt; text-transform: uppercase; letter-spacing: 1px; color: #70708a; margin: 0; }
        h2 { font-size: 16pt; margin: 4pt 0 8pt; }
        h3 { font-size: 12pt; margin: 16pt 0 6pt; border-bottom: 1px solid #e5e7eb; }
        .case-number { font-weight: bold; color: #c9a84c; margin: 4pt 0 0; }
        .generated { color: #9090a8; font-size: 8pt; }
        table { width: 100%; border-collapse: collapse; }
        .facts th { text-align: left; width: 35%; color: #70708a; font-weight: normal; padding: 3pt 0; }
        .list td { border-bottom: 1px solid #f3f4f6; padding: 4pt 2pt; }
        .empty { color: #9090a8; font-style: italic; }
    </style>
</head>
<body>
` + content + `
</body>
</html>`
}
