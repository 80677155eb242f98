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
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// VoteRequest records or moves one vote
type VoteRequest struct {
	ProposalID string `json:"proposal_id"`
	Voter      string `json:"voter"`
	Choice     string `json:"choice"`
	VoterType  string `json:"voter_type"`
}

// CastVote records a vote, moving it if the voter already voted the other way
// POST /votes
func (h *Handlers) CastVote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}

	voter := models.Identity{
		Name:    strings.TrimSpace(req.Voter),
		Species: models.Species(strings.ToLower(strings.TrimSpace(req.VoterType))),
	}
	errs := validation.Voter(voter)
	if strings.TrimSpace(req.ProposalID) == "" {
		errs = multierr.Append(errs, errors.New(validation.MsgProposalIDMissing))
	}
	choice, ok := models.ParseChoice(req.Choice)
	if !ok {
		errs = multierr.Append(errs, errors.New("Choice must be up or down"))
	}
	if errs != nil {
		util.RespondValidationErrors(c, errs)
		return
	}

	p, err := h.proposals.ApplyVote(c.Request.Context(), req.ProposalID, voter, choice)
	if errors.Is(err, repository.ErrProposalNotFound) {
		util.RespondNotFound(c, "proposal")
		return
	}
	if err != nil {
		util.RespondWithError(c, err, "failed to record vote")
		return
	}

	metrics.Get().VotesRecordedTotal.WithLabelValues(choice.String()).Inc()
	logger.Log.Debug("Vote recorded",
		logger.WithProposalID(p.ID),
		logger.WithVoter(voter.Name),
		zap.String("choice", choice.String()))
	c.JSON(http.StatusOK, gin.H{"proposal": p})
}

// RetractVote removes the voter's vote from a proposal
// DELETE /votes?proposal_id=&voter=
func (h *Handlers) RetractVote(c *gin.Context) {
	proposalID := strings.TrimSpace(c.Query("proposal_id"))
	voter := strings.TrimSpace(c.Query("voter"))

	var errs error
	if proposalID == "" {
		errs = multierr.Append(errs, errors.New(validation.MsgProposalIDMissing))
	}
	if voter == "" {
		errs = multierr.Append(errs, errors.New(validation.MsgVoterNameMissing))
	}
	if errs != nil {
		util.RespondValidationErrors(c, errs)
		return
	}

	p, err := h.proposals.RemoveVote(c.Request.Context(), proposalID, voter)
	switch {
	case errors.Is(err, repository.ErrProposalNotFound):
		util.RespondNotFound(c, "proposal")
		return
	case errors.Is(err, repository.ErrVoteNotFound):
		util.RespondNotFound(c, "vote")
		return
	case err != nil:
		util.RespondWithError(c, err, "failed to remove vote")
		return
	}

	logger.Log.Debug("Vote removed", logger.WithProposalID(p.ID), logger.WithVoter(voter))
	c.JSON(http.StatusOK, gin.H{"proposal": p})
}
