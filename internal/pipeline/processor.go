// Package pipeline turns a stored upload into text, extracted fields and
// compliance issues.
//
// Images go through normalization and OCR; PDFs with a text layer and plain
// text files skip straight to field extraction. Stages run strictly in order
// and a failed stage is never retried.
package pipeline

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/compliance"
	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/extractor"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/fields"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/ocr"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

// Text sources.
const (
	SourceOCR       = "ocr"
	SourcePDFText   = "pdf-text"
	SourcePlainText = "plain-text"
)

// Recognizer is the OCR stage. *ocr.Recognizer satisfies it.
type Recognizer interface {
	RecognizeImage(ctx context.Context, rawPath string) (*ocr.Result, error)
}

type Input struct {
	Path        string
	ContentType string
}

type Result struct {
	Text       string
	Confidence *float64
	Type       models.DocumentType
	Fields     []models.ExtractedField
	Issues     []models.ComplianceIssue
	Source     string
	Duration   time.Duration
}

type Processor struct {
	recognizer Recognizer
	evaluator  compliance.Evaluator
	logger     *utils.Logger
}

func NewProcessor(recognizer Recognizer, logger *utils.Logger) *Processor {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Processor{
		recognizer: recognizer,
		logger:     logger,
	}
}

// Process runs every stage on the file at in.Path. Errors are *errors.Error
// values carrying the failing stage's code.
func (p *Processor) Process(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()

	var (
		text       string
		confidence *float64
		source     string
	)

	mediaType := MediaType(in.ContentType)
	switch {
	case isImage(mediaType):
		res, err := p.recognizer.RecognizeImage(ctx, in.Path)
		if err != nil {
			return nil, err
		}
		text, confidence, source = res.Text, res.Confidence, SourceOCR
	case mediaType == "application/pdf":
		t, err := extractor.PDFText(in.Path)
		if err != nil {
			return nil, err
		}
		text, source = t, SourcePDFText
	case mediaType == "text/plain":
		t, err := extractor.PlainText(in.Path)
		if err != nil {
			return nil, err
		}
		text, source = t, SourcePlainText
	default:
		return nil, apperrors.NewUnsupportedFormatError(in.Path,
			fmt.Sprintf("unsupported content type %q", in.ContentType), nil)
	}

	result := p.Evaluate(text)
	result.Confidence = confidence
	result.Source = source
	result.Duration = time.Since(start)

	p.logger.Debug("Pipeline completed",
		"source", source,
		"type", result.Type,
		"fields", len(result.Fields),
		"issues", len(result.Issues),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// Evaluate runs field extraction and compliance evaluation on text that is
// already recognized. It does no I/O.
func (p *Processor) Evaluate(text string) *Result {
	fs := fields.Extract(text)
	docType := fields.DocumentTypeOf(fs)
	return &Result{
		Text:   text,
		Type:   docType,
		Fields: fs,
		Issues: p.evaluator.Evaluate(text, fs, docType),
	}
}

// Supports reports whether Process accepts the content type.
func Supports(contentType string) bool {
	mediaType := MediaType(contentType)
	return isImage(mediaType) || mediaType == "application/pdf" || mediaType == "text/plain"
}

// MediaType lowercases contentType and drops its parameters.
func MediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func isImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
