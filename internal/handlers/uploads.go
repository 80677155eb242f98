package handlers

import (
	"net/http"
	"path/filepath"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/storage"
	"github.com/Galinha2/super-nova-2177/internal/util"
	"github.com/gin-gonic/gin"
)

// UploadImage stores an image attachment
// POST /upload-image (multipart "file")
func (h *Handlers) UploadImage(c *gin.Context) {
	h.upload(c, models.MediaImage)
}

// UploadFile stores a generic file attachment
// POST /upload-file (multipart "file")
func (h *Handlers) UploadFile(c *gin.Context) {
	h.upload(c, models.MediaFile)
}

func (h *Handlers) upload(c *gin.Context, kind models.MediaKind) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		util.RespondWithAPIError(c, apperrors.ValidationError("file", "A file is required"))
		return
	}
	if kind == models.MediaImage && !storage.IsImageExtension(filepath.Ext(fh.Filename)) {
		util.RespondWithAPIError(c, apperrors.ValidationError("file", "Images must be jpg, png, gif or webp"))
		return
	}

	res, apiErr := h.storeUpload(c.Request.Context(), kind, fh)
	if apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": res.URL, "key": res.Key, "size": res.Size})
}
