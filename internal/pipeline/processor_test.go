package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/ocr"
)

const billText = "Invoice Total Rs. 12,345.50 dated 2024-03-01, GSTIN 29ABCDE1234F1Z5"

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 6)})
		}
	}
	path := filepath.Join(dir, "scan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func fakeRecognizer(text string, err error) *ocr.Recognizer {
	conf := 91.5
	engine := ocr.EngineFunc(func(ctx context.Context, imagePath string) (ocr.Result, error) {
		if _, statErr := os.Stat(imagePath); statErr != nil {
			return ocr.Result{}, statErr
		}
		if err != nil {
			return ocr.Result{}, err
		}
		return ocr.Result{Text: text, Confidence: &conf}, nil
	})
	return ocr.NewRecognizer(engine, ocr.RecognizerConfig{Workers: 1})
}

func TestProcessImage(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir)

	p := NewProcessor(fakeRecognizer(billText, nil), nil)
	res, err := p.Process(context.Background(), Input{Path: path, ContentType: "image/png"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Source != SourceOCR {
		t.Errorf("Source = %q", res.Source)
	}
	if res.Text != billText {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Confidence == nil || *res.Confidence != 91.5 {
		t.Errorf("Confidence = %v", res.Confidence)
	}
	if res.Type != models.DocumentTypeBill || len(res.Issues) != 0 || len(res.Fields) != 5 {
		t.Errorf("unexpected result: %+v", res)
	}

	// The normalized artifact is gone and the source is untouched.
	if _, err := os.Stat(path + ".pre.png"); !os.IsNotExist(err) {
		t.Errorf("artifact left behind: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("source removed: %v", err)
	}
}

func TestProcessEngineFailure(t *testing.T) {
	path := writePNG(t, t.TempDir())

	p := NewProcessor(fakeRecognizer("", errors.New("tesseract crashed")), nil)
	_, err := p.Process(context.Background(), Input{Path: path, ContentType: "image/png"})
	if apperrors.CodeOf(err) != apperrors.ErrorOCREngine {
		t.Fatalf("expected OCR_ENGINE_ERROR, got %v", err)
	}
}

func TestProcessUndecodableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.jpg")
	if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(fakeRecognizer(billText, nil), nil)
	_, err := p.Process(context.Background(), Input{Path: path, ContentType: "image/jpeg"})
	if apperrors.CodeOf(err) != apperrors.ErrorUnsupportedFormat {
		t.Fatalf("expected UNSUPPORTED_FORMAT, got %v", err)
	}
}

func TestProcessMissingFile(t *testing.T) {
	p := NewProcessor(fakeRecognizer(billText, nil), nil)
	_, err := p.Process(context.Background(), Input{Path: filepath.Join(t.TempDir(), "nope.png"), ContentType: "image/png"})
	if apperrors.CodeOf(err) != apperrors.ErrorIO {
		t.Fatalf("expected IO_ERROR, got %v", err)
	}
}

func TestProcessPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cheque.txt")
	if err := os.WriteFile(path, []byte("CHEQUE No 000123\nAmount 5,000.00\n12/03/2024\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(fakeRecognizer("", errors.New("must not be called")), nil)
	res, err := p.Process(context.Background(), Input{Path: path, ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Source != SourcePlainText || res.Confidence != nil {
		t.Errorf("unexpected source/confidence: %q %v", res.Source, res.Confidence)
	}
	if res.Type != models.DocumentTypeCheck {
		t.Errorf("Type = %q, want CHECK", res.Type)
	}
	if len(res.Issues) != 1 || res.Issues[0].Code != "PAYEE_MISSING" {
		t.Errorf("Issues = %+v", res.Issues)
	}
}

func TestProcessUnsupportedContentType(t *testing.T) {
	p := NewProcessor(fakeRecognizer(billText, nil), nil)
	_, err := p.Process(context.Background(), Input{Path: "x.zip", ContentType: "application/zip"})
	if apperrors.CodeOf(err) != apperrors.ErrorUnsupportedFormat {
		t.Fatalf("expected UNSUPPORTED_FORMAT, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	p := NewProcessor(nil, nil)

	res := p.Evaluate("")
	if res.Type != models.DocumentTypeBill {
		t.Errorf("Type = %q", res.Type)
	}
	if len(res.Issues) != 3 {
		t.Errorf("expected GST/AMOUNT/DATE issues, got %+v", res.Issues)
	}
}

func TestSupports(t *testing.T) {
	cases := map[string]bool{
		"image/png":                 true,
		"IMAGE/JPEG":                true,
		"application/pdf":           true,
		"text/plain; charset=utf-8": true,
		"application/zip":           false,
		"":                          false,
	}
	for ct, want := range cases {
		if got := Supports(ct); got != want {
			t.Errorf("Supports(%q) = %v, want %v", ct, got, want)
		}
	}
}
