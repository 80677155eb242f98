package handlers

import (
	"net/http"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/repository"
	"github.com/Galinha2/super-nova-2177/internal/storage"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers for the proposals API
type Handlers struct {
	proposals repository.ProposalRepository
	uploader  storage.Uploader
	now       func() time.Time
}

// NewHandlers creates a new handlers instance. uploader may be nil, in
// which case upload endpoints answer 503.
func NewHandlers(proposals repository.ProposalRepository, uploader storage.Uploader) *Handlers {
	return &Handlers{
		proposals: proposals,
		uploader:  uploader,
		now:       time.Now,
	}
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC(),
		"service":   "supernova-api",
	})
}
