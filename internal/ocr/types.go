// Package ocr runs an OCR engine over normalized document images.
//
// Engines are small and synchronous; Recognizer adds the worker pool,
// timeout and error classification a server needs around them.
package ocr

import "context"

// Result is the output of one OCR run.
type Result struct {
	// Text is the recognized text, empty when the engine found none.
	Text string
	// Confidence is the engine's mean confidence in [0,100], if reported.
	Confidence *float64
}

// Engine recognizes text in the image stored at imagePath.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (Result, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, imagePath string) (Result, error)

func (f EngineFunc) Name() string { return "func" }

func (f EngineFunc) Recognize(ctx context.Context, imagePath string) (Result, error) {
	return f(ctx, imagePath)
}
