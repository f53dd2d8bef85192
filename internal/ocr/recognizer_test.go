package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/normalizer"
)

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 6), G: 80, B: 40, A: 255})
		}
	}
	path := filepath.Join(dir, "bill.png")
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

func TestRecognizeImageCleansUpOnSuccess(t *testing.T) {
	src := writePNG(t, t.TempDir())

	var seen string
	engine := EngineFunc(func(ctx context.Context, path string) (Result, error) {
		seen = path
		if _, err := os.Stat(path); err != nil {
			t.Errorf("normalized image missing during OCR: %v", err)
		}
		conf := 91.5
		return Result{Text: "Total Rs. 100", Confidence: &conf}, nil
	})

	r := NewRecognizer(engine, RecognizerConfig{Workers: 1})
	res, err := r.RecognizeImage(context.Background(), src)
	if err != nil {
		t.Fatalf("RecognizeImage returned error: %v", err)
	}
	if res.Text != "Total Rs. 100" || res.Confidence == nil || *res.Confidence != 91.5 {
		t.Errorf("unexpected result: %+v", res)
	}
	if seen != src+normalizer.ArtifactSuffix {
		t.Errorf("engine saw %q, want normalized path", seen)
	}
	if _, err := os.Stat(seen); !os.IsNotExist(err) {
		t.Errorf("normalized image not removed: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source image removed: %v", err)
	}
}

func TestRecognizeImageCleansUpOnFailure(t *testing.T) {
	src := writePNG(t, t.TempDir())

	engine := EngineFunc(func(ctx context.Context, path string) (Result, error) {
		return Result{}, errors.New("tessdata not found")
	})

	r := NewRecognizer(engine, RecognizerConfig{Workers: 1})
	_, err := r.RecognizeImage(context.Background(), src)
	if got := apperrors.CodeOf(err); got != apperrors.ErrorOCREngine {
		t.Fatalf("code = %q, want %q (err=%v)", got, apperrors.ErrorOCREngine, err)
	}
	if _, statErr := os.Stat(src + normalizer.ArtifactSuffix); !os.IsNotExist(statErr) {
		t.Errorf("normalized image not removed after failure")
	}
}

func TestRecognizeImageUnsupportedSkipsEngine(t *testing.T) {
	src := filepath.Join(t.TempDir(), "cheque.jpg")
	if err := os.WriteFile(src, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	called := false
	engine := EngineFunc(func(ctx context.Context, path string) (Result, error) {
		called = true
		return Result{}, nil
	})

	_, err := NewRecognizer(engine, RecognizerConfig{}).RecognizeImage(context.Background(), src)
	if got := apperrors.CodeOf(err); got != apperrors.ErrorUnsupportedFormat {
		t.Fatalf("code = %q, want %q", got, apperrors.ErrorUnsupportedFormat)
	}
	if called {
		t.Error("engine must not run when normalization fails")
	}
}

func TestRecognizeTimeout(t *testing.T) {
	engine := EngineFunc(func(ctx context.Context, path string) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	})

	r := NewRecognizer(engine, RecognizerConfig{Workers: 1, Timeout: 20 * time.Millisecond})
	start := time.Now()
	_, err := r.Recognize(context.Background(), "ignored.png")
	if got := apperrors.CodeOf(err); got != apperrors.ErrorOCREngine {
		t.Fatalf("code = %q, want %q", got, apperrors.ErrorOCREngine)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout not honoured")
	}
}

func TestRecognizeEmptyTextIsNotAnError(t *testing.T) {
	engine := EngineFunc(func(ctx context.Context, path string) (Result, error) {
		return Result{}, nil
	})
	res, err := NewRecognizer(engine, RecognizerConfig{}).Recognize(context.Background(), "blank.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "" || res.Confidence != nil {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestRecognizeBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	engine := EngineFunc(func(ctx context.Context, path string) (Result, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(15 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return Result{Text: path}, nil
	})

	r := NewRecognizer(engine, RecognizerConfig{Workers: 2})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Recognize(context.Background(), "page.png"); err != nil {
				t.Errorf("Recognize returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestRecognizeCancelledWhileWaiting(t *testing.T) {
	release := make(chan struct{})
	engine := EngineFunc(func(ctx context.Context, path string) (Result, error) {
		<-release
		return Result{}, nil
	})
	r := NewRecognizer(engine, RecognizerConfig{Workers: 1})

	go r.Recognize(context.Background(), "first.png")
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Recognize(ctx, "second.png")
	close(release)

	if got := apperrors.CodeOf(err); got != apperrors.ErrorOCREngine {
		t.Fatalf("code = %q, want %q", got, apperrors.ErrorOCREngine)
	}
}
