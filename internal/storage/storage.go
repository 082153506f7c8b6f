package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"zamar-backend/config"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// Object is an opened stored object. Callers must Close it.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

type Storage interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Open(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// New picks the driver named in cfg.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return NewLocal(cfg.UploadDir)
	case config.StorageSupabase:
		return NewSupabase(SupabaseConfig{
			ProjectURL: cfg.SupabaseURL,
			ServiceKey: cfg.SupabaseKey,
			Bucket:     cfg.Bucket,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// NewKey builds an object key like "covers/3f1c....jpg" from an uploaded
// file name, keeping only its extension.
func NewKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), ext)
}

// MediaPath is the public path under which the API serves key.
func MediaPath(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
