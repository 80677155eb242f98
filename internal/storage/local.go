package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// LocalUploader writes media under a directory that the API server serves
// statically. Used in development and tests.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates dir if needed. baseURL is the URL dir is served at.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload copies body to a new file
func (u *LocalUploader) Upload(ctx context.Context, kind models.MediaKind, filename string, body io.Reader) (*UploadResult, error) {
	key := objectKey(kind, filename, time.Now())
	path := filepath.Join(u.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload path: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(body, MaxUploadSize))
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		Key:  key,
		URL:  u.baseURL + "/" + key,
		Size: n,
	}, nil
}

// Delete removes a previously uploaded file
func (u *LocalUploader) Delete(ctx context.Context, key string) error {
	path := filepath.Join(u.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(path, filepath.Clean(u.dir)+string(filepath.Separator)) {
		return fmt.Errorf("invalid upload key %q", key)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// Check verifies the upload directory is writable
func (u *LocalUploader) Check(ctx context.Context) error {
	f, err := os.CreateTemp(u.dir, ".check-*")
	if err != nil {
		return fmt.Errorf("upload dir %s is not writable: %w", u.dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
