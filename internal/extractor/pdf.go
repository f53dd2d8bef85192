package extractor

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
)

// PDFText returns the embedded text layer of the PDF at path, page by page.
// Scanned PDFs without a text layer are reported as unsupported: they need
// rasterizing before OCR.
func PDFText(path string) (text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.NewIoError(path, "failed to open PDF", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", apperrors.NewIoError(path, "failed to stat PDF", err)
	}

	// The PDF reader panics on some malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperrors.NewUnsupportedFormatError(path, "malformed PDF", fmt.Errorf("%v", r))
		}
	}()

	pdfReader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return "", apperrors.NewUnsupportedFormatError(path, "failed to create PDF reader", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// One unreadable page does not void the others.
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	text = strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", apperrors.NewUnsupportedFormatError(path, "PDF has no text layer", nil)
	}

	return text, nil
}
