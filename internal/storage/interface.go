package storage

import (
	"context"
	"io"

	"github.com/Galinha2/super-nova-2177/internal/models"
)

// UploadResult contains the result of a media upload
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket,omitempty"`
	Region string `json:"region,omitempty"`
	Size   int64  `json:"size"`
}

// Uploader stores proposal media and returns a durable URL.
// This interface allows for easy mocking in tests.
type Uploader interface {
	Upload(ctx context.Context, kind models.MediaKind, filename string, body io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	Check(ctx context.Context) error
}

var (
	_ Uploader = (*S3Uploader)(nil)
	_ Uploader = (*LocalUploader)(nil)
)

// MediaUploader adapts an Uploader to callers that only need the URL
type MediaUploader struct {
	Uploader Uploader
}

// UploadMedia uploads body and returns its public URL
func (m MediaUploader) UploadMedia(ctx context.Context, kind models.MediaKind, filename string, body io.Reader) (string, error) {
	res, err := m.Uploader.Upload(ctx, kind, filename, body)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}
