package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		extension string
		expected  string
	}{
		{".jpg", "image/jpeg"},
		{".JPEG", "image/jpeg"},
		{".png", "image/png"},
		{".webp", "image/webp"},
		{".pdf", "application/pdf"},
		{".unknown", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.extension, func(t *testing.T) {
			assert.Equal(t, tt.expected, getContentType(tt.extension))
		})
	}
}

func TestIsImageExtension(t *testing.T) {
	assert.True(t, IsImageExtension(".PNG"))
	assert.True(t, IsImageExtension(".jpeg"))
	assert.False(t, IsImageExtension(".pdf"))
	assert.False(t, IsImageExtension(""))
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	key := objectKey(models.MediaImage, "Photo.PNG", now)
	assert.True(t, strings.HasPrefix(key, "media/image/2025/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	assert.True(t, strings.HasSuffix(objectKey(models.MediaFile, "README", now), ".bin"))
}

func TestLocalUploader(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "http://localhost:8000/uploads/")
	require.NoError(t, err)
	require.NoError(t, u.Check(context.Background()))

	res, err := u.Upload(context.Background(), models.MediaFile, "plan.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Size)
	assert.Equal(t, "http://localhost:8000/uploads/"+res.Key, res.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, u.Delete(context.Background(), res.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(res.Key)))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, u.Delete(context.Background(), "../outside"))
}

func TestMediaUploaderReturnsURL(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "http://cdn")
	require.NoError(t, err)

	url, err := MediaUploader{Uploader: u}.UploadMedia(context.Background(), models.MediaImage, "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://cdn/media/image/"))
}
