// Package storage persists uploaded product images and returns their public URLs.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads that are not images.
var ErrUnsupportedType = errors.New("unsupported image type")

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Stored is the location of a saved object.
type Stored struct {
	URL      string
	ObjectID string
}

// Driver writes an object under key and returns where it can be fetched.
type Driver interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (Stored, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds products/<owner>/<uuid><ext> for contentType.
func ObjectKey(owner, contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := extByType[ct]
	if !ok {
		return "", ErrUnsupportedType
	}
	return path.Join("products", owner, uuid.NewString()+ext), nil
}
