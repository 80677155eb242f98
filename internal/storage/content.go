package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/google/uuid"
)

// MaxUploadSize caps a single media upload
const MaxUploadSize = 25 << 20

// getContentType returns the appropriate MIME type for file extensions
func getContentType(extension string) string {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".pdf":
		return "application/pdf"
	case ".txt", ".md":
		return "text/plain; charset=utf-8"
	case ".mp4":
		return "video/mp4"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

// IsImageExtension reports whether ext is accepted for image uploads
func IsImageExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// objectKey builds media/{kind}/{year}/{month}/{uuid}{ext}
func objectKey(kind models.MediaKind, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("media/%s/%d/%02d/%s%s", kind, now.Year(), now.Month(), uuid.New().String(), ext)
}
