// Package storage abstracts report photo hosting behind a small Store
// interface with Cloudinary and MinIO drivers, selected by configuration.
package storage

import (
	"context"
	"io"
	"strings"
)

// Allowed photo extensions and the upload size cap.
var (
	AllowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	MaxImageSize = int64(10 * 1024 * 1024) // 10MB
)

// Store persists an uploaded photo and returns its public URL.
type Store interface {
	Save(ctx context.Context, r io.Reader, size int64, ext string) (string, error)
}

// ValidImageExt reports whether ext (with leading dot, any case) is an
// accepted photo type.
func ValidImageExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
