package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFOptionsPaper(t *testing.T) {
	tests := []struct {
		name   string
		opts   PDFOptions
		width  float64
		height float64
	}{
		{"letter portrait", DefaultPDFOptions(), 8.5, 11.0},
		{"legal", PDFOptions{PageSize: "legal"}, 8.5, 14.0},
		{"A4 landscape", PDFOptions{PageSize: "A4", PageOrientation: "landscape"}, 11.69, 8.27},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.opts.paper()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestWrapHTMLForPDF(t *testing.T) {
	html := WrapHTMLForPDF("LEX-2026-001", "<h2>Body</h2>")
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<title>LEX-2026-001</title>")
	assert.Contains(t, html, "<h2>Body</h2>")
}

func TestGeneratePDFSmoke(t *testing.T) {
	if os.Getenv("CHROME_PATH") == "" {
		t.Skip("Skipping PDF generation test: CHROME_PATH not set")
	}

	pdf, err := GeneratePDF(context.Background(), WrapHTMLForPDF("t", "<h1>Hello</h1>"), DefaultPDFOptions())
	require.NoError(t, err)
	assert.Contains(t, string(pdf[:5]), "%PDF-")
}
