// Package storage keeps the raw uploads, either on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/config"
)

// ErrNotFound is returned by Download for unknown keys.
var ErrNotFound = errors.New("object not found")

type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New returns the S3 backend when an endpoint is configured and local disk
// storage under cfg.UploadDir otherwise.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	if cfg.UseS3() {
		return NewS3Storage(ctx, cfg)
	}
	return NewLocalStorage(cfg.UploadDir)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SafeName replaces every character outside [a-zA-Z0-9._-] with '_'.
func SafeName(filename string) string {
	return unsafeChars.ReplaceAllString(filename, "_")
}

// DocumentKey is the storage key of a document's raw upload.
func DocumentKey(docID, filename string, now time.Time) string {
	return fmt.Sprintf("documents/%s/%d-%s", docID, now.UnixMilli(), SafeName(filename))
}
