package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/feed"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/metrics"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/repository"
	"github.com/Galinha2/super-nova-2177/internal/storage"
	"github.com/Galinha2/super-nova-2177/internal/tally"
	"github.com/Galinha2/super-nova-2177/internal/util"
	"github.com/Galinha2/super-nova-2177/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// CreateProposalRequest is accepted as JSON or as multipart form fields
type CreateProposalRequest struct {
	Title     string `json:"title" form:"title"`
	Body      string `json:"body" form:"body"`
	Author    string `json:"author" form:"author"`
	Species   string `json:"species" form:"species"`
	AuthorImg string `json:"author_img" form:"author_img"`
	Image     string `json:"image" form:"image"`
	Video     string `json:"video" form:"video"`
	Link      string `json:"link" form:"link"`
	File      string `json:"file" form:"file"`
	MediaKind string `json:"-" form:"media_kind"`
}

func (r CreateProposalRequest) media() models.Media {
	return models.Media{
		Image: strings.TrimSpace(r.Image),
		Video: strings.TrimSpace(r.Video),
		Link:  strings.TrimSpace(r.Link),
		File:  strings.TrimSpace(r.File),
	}
}

// ListProposals returns proposals ordered and filtered by the query string
// GET /proposals?order=&dir=&species=&q=&limit=
func (h *Handlers) ListProposals(c *gin.Context) {
	q := feed.ParseValues(c.Request.URL.Query())
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.proposals.List(c.Request.Context(), q, limit)
	if err != nil {
		util.RespondWithError(c, err, "failed to list proposals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": items})
}

// GetProposal returns one proposal
// GET /proposals/:id
func (h *Handlers) GetProposal(c *gin.Context) {
	p, ok := h.loadProposal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal": p})
}

// CreateProposal validates and inserts a proposal. A multipart request may
// carry the attachment itself in the "media" field.
// POST /proposals
func (h *Handlers) CreateProposal(c *gin.Context) {
	var req CreateProposalRequest
	if err := c.ShouldBind(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	media := req.media()
	fileHeader, _ := c.FormFile("media")

	var mediaErr error
	var kind models.MediaKind
	if fileHeader != nil {
		kind = models.MediaKind(strings.ToLower(req.MediaKind))
		if kind == "" {
			kind = models.MediaFile
			if storage.IsImageExtension(filepath.Ext(fileHeader.Filename)) {
				kind = models.MediaImage
			}
		}
		mediaErr = validation.Attachment(kind, false, true)
	}

	author := models.Identity{
		Name:      strings.TrimSpace(req.Author),
		Species:   models.Species(strings.ToLower(strings.TrimSpace(req.Species))),
		AvatarURL: strings.TrimSpace(req.AuthorImg),
	}
	if err := multierr.Append(validation.Post(validation.PostInput{
		Title:    req.Title,
		Body:     req.Body,
		Author:   author,
		HasMedia: !media.Empty() || (fileHeader != nil && mediaErr == nil),
	}), mediaErr); err != nil {
		util.RespondValidationErrors(c, err)
		return
	}

	ctx := c.Request.Context()
	var uploaded *storage.UploadResult
	if fileHeader != nil {
		res, apiErr := h.storeUpload(ctx, kind, fileHeader)
		if apiErr != nil {
			util.RespondWithAPIError(c, apiErr)
			return
		}
		uploaded = res
		media = media.With(kind, res.URL)
	}

	draft := models.ProposalDraft{Title: req.Title, Body: req.Body, Author: author, Media: media}
	p := draft.Proposal()
	if err := h.proposals.Create(ctx, &p); err != nil {
		if uploaded != nil {
			if delErr := h.uploader.Delete(ctx, uploaded.Key); delErr != nil {
				logger.Log.Warn("Failed to remove orphaned upload", zap.String("key", uploaded.Key), zap.Error(delErr))
			}
		}
		util.RespondWithError(c, err, "failed to create proposal")
		return
	}

	metrics.Get().ProposalsCreatedTotal.WithLabelValues(string(author.Species)).Inc()
	logger.Log.Info("Proposal created", logger.WithProposalID(p.ID), zap.String("species", string(author.Species)))
	c.JSON(http.StatusCreated, gin.H{"proposal": p})
}

// GetTally returns the species breakdown and weighted decision
// GET /proposals/:id/tally?level=standard|important
func (h *Handlers) GetTally(c *gin.Context) {
	level, err := tally.ParseLevel(c.Query("level"))
	if err != nil {
		util.RespondWithAPIError(c, apperrors.ValidationError("level", err.Error()))
		return
	}
	p, ok := h.loadProposal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"breakdown": tally.Summarize(*p),
		"decision":  tally.Decide(*p, level),
	})
}

func (h *Handlers) loadProposal(c *gin.Context) (*models.Proposal, bool) {
	p, err := h.proposals.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrProposalNotFound) {
		util.RespondNotFound(c, "proposal")
		return nil, false
	}
	if err != nil {
		util.RespondWithError(c, err, "failed to load proposal")
		return nil, false
	}
	return p, true
}

func (h *Handlers) storeUpload(ctx context.Context, kind models.MediaKind, fh *multipart.FileHeader) (*storage.UploadResult, *apperrors.APIError) {
	if h.uploader == nil {
		return nil, apperrors.ServiceUnavailable("media storage")
	}
	if fh.Size > storage.MaxUploadSize {
		return nil, apperrors.PayloadTooLarge(storage.MaxUploadSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.BadRequest("could not read uploaded file")
	}
	defer f.Close()

	res, err := h.uploader.Upload(ctx, kind, fh.Filename, f)
	if err != nil {
		metrics.Get().UploadsTotal.WithLabelValues(string(kind), "error").Inc()
		logger.Log.Error("Upload failed", zap.String("filename", fh.Filename), zap.Error(err))
		return nil, apperrors.InternalError("failed to store upload")
	}
	metrics.Get().UploadsTotal.WithLabelValues(string(kind), "ok").Inc()
	return res, nil
}
