package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"pdfquiz/internal/logging"
)

// PreviewLength is the number of characters returned as a text preview.
const PreviewLength = 500

var (
	// ErrEmptyDocument is returned for zero-length input.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrNoText is returned when a document holds no extractable text,
	// for example a scanned PDF without a text layer.
	ErrNoText = errors.New("no text found in document")
)

// Extractor produces plain text from a document.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor extracts text from PDF files with MuPDF.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the text of every page, pages separated by a blank line.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", n+1, err)
		}
		pages = append(pages, text)
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if text == "" {
		return "", ErrNoText
	}

	logging.WithContext(ctx).Infof("Extracted %d characters from %d pages", len([]rune(text)), len(pages))
	return text, nil
}

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// IsPDF reports whether an upload looks like a PDF, by content type,
// file extension or leading bytes.
func IsPDF(filename, contentType string, head []byte) bool {
	if bytes.HasPrefix(head, pdfMagic) {
		return true
	}
	if strings.HasPrefix(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// Preview returns the first max characters of text followed by "...".
func Preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes) + "..."
}
