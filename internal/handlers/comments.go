package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/metrics"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/Galinha2/super-nova-2177/internal/repository"
	"github.com/Galinha2/super-nova-2177/internal/util"
	"github.com/Galinha2/super-nova-2177/internal/validation"
	"github.com/gin-gonic/gin"
)

// CommentRequest appends a comment to a proposal
type CommentRequest struct {
	ProposalID string `json:"proposal_id"`
	User       string `json:"user"`
	UserImg    string `json:"user_img"`
	Species    string `json:"species"`
	Comment    string `json:"comment"`
}

// AddComment appends a comment
// POST /comments
func (h *Handlers) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	author := models.Identity{
		Name:      strings.TrimSpace(req.User),
		Species:   models.Species(strings.ToLower(strings.TrimSpace(req.Species))),
		AvatarURL: strings.TrimSpace(req.UserImg),
	}
	if err := validation.Comment(req.ProposalID, author, req.Comment); err != nil {
		util.RespondValidationErrors(c, err)
		return
	}

	comment := models.Comment{
		User:    author.Name,
		UserImg: author.AvatarURL,
		Species: author.Species,
		Comment: strings.TrimSpace(req.Comment),
	}
	p, err := h.proposals.AppendComment(c.Request.Context(), req.ProposalID, comment)
	if errors.Is(err, repository.ErrProposalNotFound) {
		util.RespondNotFound(c, "proposal")
		return
	}
	if err != nil {
		util.RespondWithError(c, err, "failed to add comment")
		return
	}

	metrics.Get().CommentsAddedTotal.Inc()
	logger.Log.Debug("Comment added", logger.WithProposalID(p.ID), logger.WithVoter(author.Name))
	c.JSON(http.StatusCreated, gin.H{"comment": comment, "proposal": p})
}
