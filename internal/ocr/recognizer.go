package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/normalizer"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

// RecognizerConfig holds Recognizer settings.
type RecognizerConfig struct {
	// Workers bounds concurrent engine calls across all requests.
	Workers int
	// Timeout bounds a single engine call. Zero means no timeout.
	Timeout time.Duration
	Logger  *utils.Logger
}

// Recognizer runs an Engine off the caller's goroutine, at most Workers at a time.
type Recognizer struct {
	engine  Engine
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *utils.Logger
}

func NewRecognizer(engine Engine, cfg RecognizerConfig) *Recognizer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Recognizer{
		engine:  engine,
		sem:     semaphore.NewWeighted(int64(workers)),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// RecognizeImage normalizes the raw image at rawPath, runs OCR on the
// normalized copy and removes the copy afterwards, whatever the outcome.
func (r *Recognizer) RecognizeImage(ctx context.Context, rawPath string) (*Result, error) {
	prePath, err := normalizer.Normalize(rawPath)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, prePath, func() { normalizer.Cleanup(prePath) })
}

// Recognize runs OCR on an already normalized image.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (*Result, error) {
	return r.run(ctx, imagePath, nil)
}

type engineOutcome struct {
	res Result
	err error
}

// run executes the engine; after, if set, is called once the engine has
// returned, even when the caller stopped waiting because ctx ended.
func (r *Recognizer) run(ctx context.Context, imagePath string, after func()) (*Result, error) {
	name := r.engine.Name()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		if after != nil {
			after()
		}
		return nil, apperrors.NewOcrEngineError(name, "no worker available", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan engineOutcome, 1)
	go func() {
		defer r.sem.Release(1)
		// after runs before the outcome is delivered, so a caller that
		// receives it sees the cleanup done.
		res, err := func() (Result, error) {
			if after != nil {
				defer after()
			}
			return r.engine.Recognize(ctx, imagePath)
		}()
		done <- engineOutcome{res: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) || errors.Is(out.err, context.Canceled) {
				return nil, apperrors.NewOcrEngineError(name, "recognition interrupted", out.err)
			}
			return nil, apperrors.NewOcrEngineError(name, "recognition failed", out.err)
		}
		r.logger.Debug("OCR completed",
			"engine", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"text_length", len(out.res.Text))
		res := out.res
		return &res, nil
	case <-ctx.Done():
		r.logger.Warn("OCR abandoned", "engine", name, "error", ctx.Err())
		return nil, apperrors.NewOcrEngineError(name,
			fmt.Sprintf("recognition interrupted after %s", time.Since(start).Round(time.Millisecond)), ctx.Err())
	}
}
