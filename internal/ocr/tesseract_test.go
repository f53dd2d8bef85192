package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func TestTesseractEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 45),
	}
	d.DrawString("CHEQUE PAY 500")

	path := filepath.Join(t.TempDir(), "cheque.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	res, err := NewTesseractEngine().Recognize(context.Background(), path)
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if !strings.Contains(strings.ToLower(res.Text), "pay") {
		t.Fatalf("unexpected OCR output: %q", res.Text)
	}
	if res.Confidence == nil || *res.Confidence < 0 || *res.Confidence > 100 {
		t.Errorf("confidence out of range: %v", res.Confidence)
	}
}

func TestTesseractEngineDefaults(t *testing.T) {
	e := NewTesseractEngine()
	if e.Name() != "tesseract" {
		t.Errorf("Name() = %q", e.Name())
	}
	if len(e.languages) != 1 || e.languages[0] != DefaultLanguage {
		t.Errorf("languages = %v", e.languages)
	}
}
