// Package normalizer prepares scanned document images for OCR.
package normalizer

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"

	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
)

const (
	// MaxWidth caps the output width. Narrower images are never upscaled.
	MaxWidth = 2000

	// ArtifactSuffix is appended to the source path to name the output.
	ArtifactSuffix = ".pre.png"

	lowPercentile  = 0.01
	highPercentile = 0.99
)

// Normalize writes a resized, grayscale, contrast-stretched PNG next to
// srcPath and returns its path. The source file is only read.
//
// The caller owns the returned file and should pass it to Cleanup.
func Normalize(srcPath string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", apperrors.NewIoError(srcPath, "failed to open image", err)
	}
	defer f.Close()

	src, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return "", apperrors.NewUnsupportedFormatError(srcPath, "failed to decode image", err)
	}

	img := Apply(src)

	dstPath := srcPath + ArtifactSuffix
	out, err := os.Create(dstPath)
	if err != nil {
		return "", apperrors.NewIoError(dstPath, "failed to create normalized image", err)
	}
	if err := imaging.Encode(out, img, imaging.PNG); err != nil {
		out.Close()
		Cleanup(dstPath)
		return "", apperrors.NewIoError(dstPath, "failed to write normalized image", err)
	}
	if err := out.Close(); err != nil {
		Cleanup(dstPath)
		return "", apperrors.NewIoError(dstPath, "failed to write normalized image", err)
	}

	return dstPath, nil
}

// Apply runs the in-memory part of Normalize: resize, grayscale, stretch.
func Apply(src image.Image) *image.NRGBA {
	img := imaging.Clone(src)
	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}
	img = imaging.Grayscale(img)
	return stretchContrast(img)
}

// Cleanup removes a normalized artifact. Failures are ignored.
func Cleanup(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// stretchContrast maps the 1st..99th luminance percentiles onto 0..255.
func stretchContrast(img *image.NRGBA) *image.NRGBA {
	lo, hi := percentileBounds(imaging.Histogram(img))
	if hi <= lo {
		return img
	}

	scale := 255.0 / float64(hi-lo)
	var lut [256]uint8
	for v := 0; v < 256; v++ {
		switch {
		case v <= lo:
			lut[v] = 0
		case v >= hi:
			lut[v] = 255
		default:
			lut[v] = uint8(float64(v-lo)*scale + 0.5)
		}
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}

func percentileBounds(hist [256]float64) (lo, hi int) {
	lo, hi = -1, -1
	var cum float64
	for v, p := range hist {
		cum += p
		if lo < 0 && cum >= lowPercentile {
			lo = v
		}
		if hi < 0 && cum >= highPercentile {
			hi = v
			break
		}
	}
	if lo < 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 255
	}
	return lo, hi
}
